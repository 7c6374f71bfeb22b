package repository

import (
	"database/sql"
	"fmt"
)

// expectAffected turns an update that matched no rows into sql.ErrNoRows so services
// can map it to a not-found error.
func expectAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, sql.ErrNoRows)
	}
	return nil
}
