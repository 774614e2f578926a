package database

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dexbot/src/models"
)

func newMockDB(t *testing.T) (*PostgresDB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return &PostgresDB{db: mockDB}, mock
}

func TestSaveCandles(t *testing.T) {
	t.Run("batch save", func(t *testing.T) {
		db, mock := newMockDB(t)

		candles := []*models.Candle{
			{Timestamp: 1000, Open: decimal.NewFromFloat(100), High: decimal.NewFromFloat(101),
				Low: decimal.NewFromFloat(99), Close: decimal.NewFromFloat(100.5), Volume: decimal.NewFromFloat(10)},
			{Timestamp: 1600, Open: decimal.NewFromFloat(100.5), High: decimal.NewFromFloat(102),
				Low: decimal.NewFromFloat(100), Close: decimal.NewFromFloat(101), Volume: decimal.NewFromFloat(12)},
		}

		mock.ExpectBegin()
		prep := mock.ExpectPrepare("INSERT INTO candles")
		prep.ExpectExec().
			WithArgs("BTCUSDT", "10m", int64(1000),
				candles[0].Open, candles[0].High, candles[0].Low, candles[0].Close, candles[0].Volume).
			WillReturnResult(sqlmock.NewResult(1, 1))
		prep.ExpectExec().
			WithArgs("BTCUSDT", "10m", int64(1600),
				candles[1].Open, candles[1].High, candles[1].Low, candles[1].Close, candles[1].Volume).
			WillReturnResult(sqlmock.NewResult(2, 1))
		mock.ExpectCommit()

		err := db.SaveCandles(context.Background(), "BTCUSDT", "10m", candles)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty list issues no SQL", func(t *testing.T) {
		db, mock := newMockDB(t)

		err := db.SaveCandles(context.Background(), "BTCUSDT", "10m", nil)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetCandles(t *testing.T) {
	t.Run("descending query returned ascending", func(t *testing.T) {
		db, mock := newMockDB(t)

		rows := sqlmock.NewRows([]string{"open_time", "open_price", "high_price", "low_price", "close_price", "volume"}).
			AddRow(int64(2000), "101", "102", "100", "101.5", "12").
			AddRow(int64(1000), "100", "101", "99", "100.5", "10")

		mock.ExpectQuery("SELECT open_time, open_price").
			WithArgs("BTCUSDT", "10m", 2).
			WillReturnRows(rows)

		candles, err := db.GetCandles(context.Background(), "BTCUSDT", "10m", 2)
		require.NoError(t, err)
		require.Len(t, candles, 2)
		assert.Equal(t, int64(1000), candles[0].Timestamp)
		assert.Equal(t, int64(2000), candles[1].Timestamp)
		assert.True(t, candles[0].Close.Equal(decimal.NewFromFloat(100.5)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no data returns empty", func(t *testing.T) {
		db, mock := newMockDB(t)

		mock.ExpectQuery("SELECT open_time, open_price").
			WithArgs("BTCUSDT", "10m", 10).
			WillReturnRows(sqlmock.NewRows([]string{"open_time", "open_price", "high_price", "low_price", "close_price", "volume"}))

		candles, err := db.GetCandles(context.Background(), "BTCUSDT", "10m", 10)
		require.NoError(t, err)
		assert.Empty(t, candles)
	})
}

func TestGetCandlesSince(t *testing.T) {
	db, mock := newMockDB(t)

	rows := sqlmock.NewRows([]string{"open_time", "open_price", "high_price", "low_price", "close_price", "volume"}).
		AddRow(int64(1000), "100", "101", "99", "100.5", "10").
		AddRow(int64(2000), "101", "102", "100", "101.5", "12")

	mock.ExpectQuery("SELECT open_time, open_price").
		WithArgs("BTCUSDT", "10m", int64(500)).
		WillReturnRows(rows)

	candles, err := db.GetCandlesSince(context.Background(), "BTCUSDT", "10m", 500)
	require.NoError(t, err)
	require.Len(t, candles, 2)
	assert.Equal(t, int64(1000), candles[0].Timestamp)
	assert.NoError(t, mock.ExpectationsWereMet())
}
