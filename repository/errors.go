package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrDuplicate   = errors.New("record already exists")
	ErrInvalidPage = errors.New("invalid page")
)

// translate maps driver and GORM errors onto the package sentinels. GORM is
// opened with TranslateError so unique violations arrive as ErrDuplicatedKey
// for both postgres and mysql.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}
