package main

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePoint(t *testing.T) {
	lat, lon, ok := parsePoint("POINT (44.003277 56.331576)")
	require.True(t, ok)
	assert.Equal(t, 56.331576, lat)
	assert.Equal(t, 44.003277, lon)

	_, _, ok = parsePoint("56.33, 44.00")
	assert.False(t, ok)
}

func TestCleanHTML(t *testing.T) {
	assert.Equal(t, "Кремль XVI века", cleanHTML("<p>Кремль</p>\n  <b>XVI</b> века"))
	assert.Len(t, []rune(cleanHTML(strings.Repeat("я", 1500))), 1000)
}

func TestParseRecord(t *testing.T) {
	cols := map[string]int{"id": 0, "title": 1, "address": 2, "coordinate": 3, "description": 4, "category_id": 5, "url": 6}

	row, err := parseRecord([]string{"57", "Памятник Петру I", "Нижне-Волжская наб.", "POINT (44.003277 56.331576)", "<p>Открыт в 2014</p>", "10", ""}, cols)
	require.NoError(t, err)
	assert.Equal(t, 57, row.ID)
	assert.Equal(t, 9, row.CategoryID)
	assert.Equal(t, "Открыт в 2014", row.DescriptionClean)
	assert.Nil(t, row.URL)

	_, err = parseRecord([]string{"58", "Без координат", "", "", "", "1", ""}, cols)
	assert.ErrorIs(t, err, errSkipRow)

	_, err = parseRecord([]string{"59", "Неизвестная категория", "", "POINT (44 56)", "", "9", ""}, cols)
	assert.ErrorIs(t, err, errSkipRow)
}

func TestLoadPlaces(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	csvData := "id,title,address,coordinate,description,category_id,url\n" +
		"1,Кремль,Кремль 1,POINT (44.002 56.328),Крепость,5,https://example.test\n" +
		"2,Без точки,,,,1,\n" +
		"3,Кремль,Кремль 1,POINT (44.002 56.328),Дубликат,5,\n"

	mockPool.ExpectBegin()
	mockPool.ExpectExec("INSERT INTO places").
		WithArgs(1, "Кремль", "Кремль 1", 56.328, 44.002, "Крепость", "Крепость", 5, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mockPool.ExpectExec("INSERT INTO places").
		WithArgs(3, "Кремль", "Кремль 1", 56.328, 44.002, "Дубликат", "Дубликат", 5, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mockPool.ExpectCommit()
	mockPool.ExpectExec("SELECT setval").WillReturnResult(pgxmock.NewResult("SELECT", 1))

	loaded, skipped, err := loadPlaces(context.Background(), mockPool, strings.NewReader(csvData),
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	assert.Equal(t, 1, loaded)
	assert.Equal(t, 2, skipped)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}
