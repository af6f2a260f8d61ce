package service

import "errors"

var (
	ErrFieldNameInUse      = errors.New("a field with this name already exists in the table")
	ErrCannotTrashPrimary  = errors.New("the primary field of a table cannot be trashed")
	ErrFieldNotTrashed     = errors.New("field is not trashed")
	ErrLinkRowTableMissing = errors.New("link row field requires a linked table")
)
