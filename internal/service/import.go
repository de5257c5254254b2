package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Beka01247/kwaaka-menu/internal/domain"
	"github.com/Beka01247/kwaaka-menu/internal/parser"
	"github.com/Beka01247/kwaaka-menu/internal/queue"
	"github.com/Beka01247/kwaaka-menu/internal/repo"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ErrImportDisabled is returned when no spreadsheet source is configured.
var ErrImportDisabled = errors.New("menu import is not configured")

// MenuSource reads a spreadsheet into raw menu content.
type MenuSource interface {
	ParseMenu(ctx context.Context, spreadsheetID string) (*parser.ImportedMenu, error)
}

type ImportService struct {
	parsingTaskRepo repo.ParsingTaskRepository
	menuRepo        repo.MenuRepository
	source          MenuSource
	broker          queue.Broker
	tx              repo.Transactor
	events          eventRecorder
	logger          *zap.SugaredLogger
}

func NewImportService(
	parsingTaskRepo repo.ParsingTaskRepository,
	menuRepo repo.MenuRepository,
	eventRepo repo.MenuEventRepository,
	source MenuSource,
	broker queue.Broker,
	tx repo.Transactor,
	logger *zap.SugaredLogger,
) *ImportService {
	return &ImportService{
		parsingTaskRepo: parsingTaskRepo,
		menuRepo:        menuRepo,
		source:          source,
		broker:          broker,
		tx:              tx,
		events:          eventRecorder{eventRepo: eventRepo, broker: broker, logger: logger},
		logger:          logger,
	}
}

func (s *ImportService) CreateParsingTask(ctx context.Context, tenantID uuid.UUID, spreadsheetID, menuName, culture string) (primitive.ObjectID, error) {
	if culture == "" {
		culture = domain.DefaultCulture
	}
	code, err := domain.NormalizeCulture(culture)
	if err != nil {
		return primitive.NilObjectID, err
	}

	task := &domain.ParsingTask{
		Status:        domain.StatusQueued,
		TenantID:      tenantID.String(),
		SpreadsheetID: spreadsheetID,
		MenuName:      menuName,
		Culture:       code,
		RetryCount:    0,
	}

	if err := s.parsingTaskRepo.Create(ctx, task); err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to create parsing task: %w", err)
	}

	message := domain.MenuImportMessage{
		TaskID:        task.ID.Hex(),
		TenantID:      task.TenantID,
		SpreadsheetID: spreadsheetID,
	}

	messageBytes, err := json.Marshal(message)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to marshal message: %w", err)
	}

	if err := s.broker.Publish(ctx, queue.QueueMenuImport, messageBytes); err != nil {
		_ = s.parsingTaskRepo.UpdateStatus(ctx, task.ID, domain.StatusFailed, err.Error())
		return primitive.NilObjectID, fmt.Errorf("failed to publish message: %w", err)
	}

	s.logger.Infow("parsing task created", "task_id", task.ID.Hex(), "tenant_id", tenantID, "spreadsheet_id", spreadsheetID)

	return task.ID, nil
}

func (s *ImportService) GetTaskStatus(ctx context.Context, taskID primitive.ObjectID) (*domain.ParsingTask, error) {
	task, err := s.parsingTaskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get parsing task: %w", err)
	}

	return task, nil
}

// ProcessParsingTask imports the task's spreadsheet as a new menu. A task
// that already completed is left alone, so redelivered messages are harmless.
func (s *ImportService) ProcessParsingTask(ctx context.Context, taskID primitive.ObjectID) error {
	task, err := s.parsingTaskRepo.GetByID(ctx, taskID)
	if err != nil {
		return fmt.Errorf("failed to get task: %w", err)
	}
	if task.Status == domain.StatusCompleted {
		s.logger.Infow("parsing task already completed", "task_id", taskID.Hex(), "menu_id", task.MenuID)
		return nil
	}

	// a task seen before is a redelivery after a failed attempt
	if task.Status != domain.StatusQueued {
		if err := s.parsingTaskRepo.IncrementRetryCount(ctx, taskID); err != nil {
			return fmt.Errorf("failed to count retry: %w", err)
		}
	}

	tenantID, err := uuid.Parse(task.TenantID)
	if err != nil {
		_ = s.parsingTaskRepo.UpdateStatus(ctx, taskID, domain.StatusFailed, "invalid tenant id")
		return fmt.Errorf("invalid tenant id %q: %w", task.TenantID, err)
	}

	if err := s.parsingTaskRepo.UpdateStatus(ctx, taskID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("failed to update task status: %w", err)
	}

	s.logger.Infow("processing parsing task", "task_id", taskID.Hex())

	if s.source == nil {
		_ = s.parsingTaskRepo.UpdateStatus(ctx, taskID, domain.StatusFailed, ErrImportDisabled.Error())
		return ErrImportDisabled
	}

	imported, err := s.source.ParseMenu(ctx, task.SpreadsheetID)
	if err != nil {
		s.logger.Errorw("failed to parse menu", "task_id", taskID.Hex(), "error", err)
		_ = s.parsingTaskRepo.UpdateStatus(ctx, taskID, domain.StatusFailed, err.Error())
		return fmt.Errorf("failed to parse menu: %w", err)
	}

	menu, events, err := BuildImportedMenu(tenantID, task.MenuName, task.Culture, imported)
	if err != nil {
		s.logger.Errorw("imported menu is invalid", "task_id", taskID.Hex(), "error", err)
		_ = s.parsingTaskRepo.UpdateStatus(ctx, taskID, domain.StatusFailed, err.Error())
		return fmt.Errorf("failed to build menu: %w", err)
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.menuRepo.Add(ctx, menu); err != nil {
			return fmt.Errorf("failed to save menu: %w", err)
		}
		if err := s.events.record(ctx, events); err != nil {
			return err
		}
		if err := s.parsingTaskRepo.UpdateWithMenuID(ctx, taskID, menu.ID().String(), domain.StatusCompleted); err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Errorw("failed to store imported menu", "task_id", taskID.Hex(), "error", err)
		_ = s.parsingTaskRepo.UpdateStatus(ctx, taskID, domain.StatusFailed, err.Error())
		return err
	}

	s.events.dispatch(ctx, events)
	s.logger.Infow("parsing task completed", "task_id", taskID.Hex(), "menu_id", menu.ID())

	return nil
}

// BuildImportedMenu creates a menu from spreadsheet content through the
// aggregate, so imported data obeys the same rules as API edits. Text is
// stored under culture.
func BuildImportedMenu(tenantID uuid.UUID, menuName, culture string, imported *parser.ImportedMenu) (*domain.Menu, []domain.Event, error) {
	name, err := domain.NewLocalizedText(menuName, culture)
	if err != nil {
		return nil, nil, fmt.Errorf("menu name: %w", err)
	}

	menu, events, err := domain.NewMenu(tenantID, name, domain.LocalizedText{})
	if err != nil {
		return nil, nil, err
	}

	for _, ic := range imported.Categories {
		categoryName, err := domain.NewLocalizedText(ic.Name, culture)
		if err != nil {
			return nil, nil, fmt.Errorf("category %q: %w", ic.Name, err)
		}
		category, raised, err := menu.AddCategory(categoryName, ic.Icon, nil)
		if err != nil {
			return nil, nil, fmt.Errorf("category %q: %w", ic.Name, err)
		}
		events = append(events, raised...)

		for _, ii := range ic.Items {
			in, err := importedItem(ii, culture)
			if err != nil {
				return nil, nil, fmt.Errorf("item %q: %w", ii.Name, err)
			}
			_, raised, err := menu.AddItem(category.ID(), in)
			if err != nil {
				return nil, nil, fmt.Errorf("item %q: %w", ii.Name, err)
			}
			events = append(events, raised...)
		}
	}

	return menu, events, nil
}

func importedItem(ii parser.ImportedItem, culture string) (domain.NewItem, error) {
	name, err := domain.NewLocalizedText(ii.Name, culture)
	if err != nil {
		return domain.NewItem{}, err
	}

	var description domain.LocalizedText
	if ii.Description != "" {
		if description, err = domain.NewLocalizedText(ii.Description, culture); err != nil {
			return domain.NewItem{}, err
		}
	}

	price, err := domain.ParseMoney(ii.Price, ii.Currency)
	if err != nil {
		return domain.NewItem{}, err
	}

	tags := make([]domain.Tag, 0, len(ii.Tags))
	for _, raw := range ii.Tags {
		tag, err := domain.ParseTag(raw)
		if err != nil {
			return domain.NewItem{}, err
		}
		tags = append(tags, tag)
	}

	in := domain.NewItem{
		Name:        name,
		Description: description,
		BasePrice:   price,
		Tags:        tags,
		ImageURL:    ii.ImageURL,
	}

	if ii.Quantity != nil {
		inv, err := domain.TrackInventory(*ii.Quantity, ii.Threshold)
		if err != nil {
			return domain.NewItem{}, err
		}
		in.Inventory = &inv
	}

	return in, nil
}
