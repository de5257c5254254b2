package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a domain failure so callers can map it without
// matching on messages.
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindNotFound
	KindConflict
	KindInvariant
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInvariant:
		return "invariant"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches on kind and code so sentinels like ErrMenuArchived work with
// errors.Is regardless of the message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

const (
	CodeMenuArchived      = "menu_archived"
	CodeCategoryArchived  = "category_archived"
	CodeDuplicateOrder    = "duplicate_display_order"
	CodeInvalidReorder    = "invalid_reorder"
	CodeCategoryNotFound  = "category_not_found"
	CodeItemNotFound      = "item_not_found"
	CodeInsufficientStock = "insufficient_stock"
	CodeInventoryOverflow = "inventory_overflow"
)

var (
	ErrMenuArchived     = &Error{Kind: KindConflict, Code: CodeMenuArchived, Message: "menu is archived"}
	ErrCategoryArchived = &Error{Kind: KindConflict, Code: CodeCategoryArchived, Message: "category is archived"}
	ErrCategoryNotFound = &Error{Kind: KindNotFound, Code: CodeCategoryNotFound, Message: "category not found"}
	ErrItemNotFound     = &Error{Kind: KindNotFound, Code: CodeItemNotFound, Message: "menu item not found"}
)

func newValidation(code, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: fmt.Sprintf(format, args...)}
}

func newConflict(code, format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: fmt.Sprintf(format, args...)}
}

func newInvariant(code, format string, args ...any) *Error {
	return &Error{Kind: KindInvariant, Code: code, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of a domain error anywhere in err's chain, or 0.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return 0
}

func IsValidation(err error) bool { return KindOf(err) == KindValidation }
func IsNotFound(err error) bool   { return KindOf(err) == KindNotFound }
func IsConflict(err error) bool   { return KindOf(err) == KindConflict }
func IsInvariant(err error) bool  { return KindOf(err) == KindInvariant }
