package repository

import (
	"database/sql"

	apperrors "github.com/allisson/fieldcrypt/internal/errors"
	recordDomain "github.com/allisson/fieldcrypt/internal/record/domain"
)

func scanRecords(rows *sql.Rows) ([]*recordDomain.Record, error) {
	records := make([]*recordDomain.Record, 0)
	for rows.Next() {
		var record recordDomain.Record
		if err := rows.Scan(
			&record.Identity,
			&record.Envelope,
			&record.CreatedAt,
			&record.UpdatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan record")
		}
		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate records")
	}

	return records, nil
}

func checkAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read affected rows")
	}
	if affected == 0 {
		return recordDomain.ErrRecordNotFound
	}
	return nil
}
