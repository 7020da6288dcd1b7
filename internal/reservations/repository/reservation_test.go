package repository

import (
	"errors"
	"testing"

	reservationerrors "museumtix/internal/reservations/errors"

	"go.mongodb.org/mongo-driver/mongo"
)

func duplicateKeyErr(message string) error {
	return mongo.WriteException{
		WriteErrors: []mongo.WriteError{
			{Code: 11000, Message: message},
		},
	}
}

func TestClassifyDuplicate(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{
			name:    "public id collision",
			err:     duplicateKeyErr(`E11000 duplicate key error collection: museum.Reservations index: public_id_1 dup key: { public_id: "CST-7KQ2ZP" }`),
			wantErr: reservationerrors.ErrDuplicateCode,
		},
		{
			name:    "slot collision",
			err:     duplicateKeyErr(`E11000 duplicate key error collection: museum.Reservations index: visiting_date_1_visiting_hour_1 dup key: { visiting_date: ..., visiting_hour: 3 }`),
			wantErr: reservationerrors.ErrSlotTaken,
		},
		{
			name:    "unrecognized duplicate defaults to slot",
			err:     duplicateKeyErr("E11000 duplicate key error"),
			wantErr: reservationerrors.ErrSlotTaken,
		},
		{
			name:    "non write exception defaults to slot",
			err:     errors.New("duplicate key"),
			wantErr: reservationerrors.ErrSlotTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyDuplicate(tt.err)
			if !errors.Is(got, tt.wantErr) {
				t.Errorf("classifyDuplicate() = %v, want %v", got, tt.wantErr)
			}
		})
	}
}
