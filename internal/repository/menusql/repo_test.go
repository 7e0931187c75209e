package menusql

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goldenspoon/dinebot/internal/db"
	"github.com/goldenspoon/dinebot/internal/domain"
	"github.com/goldenspoon/dinebot/internal/domain/menu"
)

var itemColumns = []string{
	"name", "category", "price", "description", "ingredients",
	"vegetarian", "vegan", "spice_level", "preparation_time",
}

func newRepo(t *testing.T) (*Repo, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return New(conn), mock
}

func itemRows() *sqlmock.Rows {
	return sqlmock.NewRows(itemColumns).
		AddRow("Garlic Bread", "Appetizer", 120.0, "Toasted bread", `["bread","garlic","butter"]`, true, false, "none", 10).
		AddRow("Paneer Tikka", "Appetizer", 200.0, "Grilled cottage cheese", `["paneer","yogurt"]`, true, false, "medium", 20)
}

func TestAllItems(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta(selectAllSQL)).WillReturnRows(itemRows())

	items, err := repo.AllItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Garlic Bread", items[0].Name())
	assert.Equal(t, []string{"bread", "garlic", "butter"}, items[0].Ingredients())
	assert.Equal(t, menu.SpiceMedium, items[1].SpiceLevel())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllItems_NullColumns(t *testing.T) {
	repo, mock := newRepo(t)
	rows := sqlmock.NewRows(itemColumns).
		AddRow("Water", "Beverage", 0.0, nil, nil, nil, nil, nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta(selectAllSQL)).WillReturnRows(rows)

	items, err := repo.AllItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Empty(t, items[0].Description())
	assert.Nil(t, items[0].Ingredients())
	assert.False(t, items[0].Vegetarian())
}

func TestAllItems_QueryError(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta(selectAllSQL)).WillReturnError(errors.New("connection reset"))

	_, err := repo.AllItems(context.Background())
	var dbErr *db.Error
	require.ErrorAs(t, err, &dbErr)
	assert.Equal(t, db.OpSelect, dbErr.Op)
}

func TestAllItems_BadIngredients(t *testing.T) {
	repo, mock := newRepo(t)
	rows := sqlmock.NewRows(itemColumns).
		AddRow("Soup", "Appetizer", 90.0, "", "not json", true, true, "mild", 5)
	mock.ExpectQuery(regexp.QuoteMeta(selectAllSQL)).WillReturnRows(rows)

	_, err := repo.AllItems(context.Background())
	assert.Error(t, err)
}

func TestItemByName(t *testing.T) {
	repo, mock := newRepo(t)
	rows := sqlmock.NewRows(itemColumns).
		AddRow("Paneer Tikka", "Appetizer", 200.0, "Grilled cottage cheese", `["paneer"]`, true, false, "medium", 20)
	mock.ExpectQuery(regexp.QuoteMeta(selectByNameSQL)).WithArgs("paneer tikka").WillReturnRows(rows)

	it, err := repo.ItemByName(context.Background(), "paneer tikka")
	require.NoError(t, err)
	assert.Equal(t, "Paneer Tikka", it.Name())
	assert.Equal(t, 200.0, it.Price())
}

func TestItemByName_NotFound(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta(selectByNameSQL)).WithArgs("sushi").
		WillReturnRows(sqlmock.NewRows(itemColumns))

	_, err := repo.ItemByName(context.Background(), "sushi")
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestItemsByCategory(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta(selectByCategorySQL)).WithArgs("appetizer").WillReturnRows(itemRows())

	items, err := repo.ItemsByCategory(context.Background(), "appetizer")
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestItemsByCategory_EmptyIsNotNil(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta(selectByCategorySQL)).WithArgs("Sushi").
		WillReturnRows(sqlmock.NewRows(itemColumns))

	items, err := repo.ItemsByCategory(context.Background(), "Sushi")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestSearch_LowercasesAndEscapes(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta(searchSQL)).WithArgs(`%100\%%`).
		WillReturnRows(sqlmock.NewRows(itemColumns))
	mock.ExpectQuery(regexp.QuoteMeta(searchSQL)).WithArgs("%tikka%").WillReturnRows(itemRows())

	_, err := repo.Search(context.Background(), "100%")
	require.NoError(t, err)

	items, err := repo.Search(context.Background(), "TIKKA")
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategories(t *testing.T) {
	repo, mock := newRepo(t)
	rows := sqlmock.NewRows([]string{"category"}).AddRow("Appetizer").AddRow("Beverage").AddRow("Dessert")
	mock.ExpectQuery(regexp.QuoteMeta(categoriesSQL)).WillReturnRows(rows)

	cats, err := repo.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Appetizer", "Beverage", "Dessert"}, cats)
}

func TestCount(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta(countSQL)).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(9))

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 9, n)
}

func TestEnsureSchema(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectExec(regexp.QuoteMeta(schemaSQL)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(categoryIndexSQL)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(nameIndexSQL)).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchema_Error(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectExec(regexp.QuoteMeta(schemaSQL)).WillReturnError(errors.New("permission denied"))

	err := repo.EnsureSchema(context.Background())
	var dbErr *db.Error
	require.ErrorAs(t, err, &dbErr)
	assert.Equal(t, db.OpCreate, dbErr.Op)
}

func TestSaveAll(t *testing.T) {
	repo, mock := newRepo(t)
	it, err := menu.New(menu.Attrs{
		Name: "Mango Lassi", Category: "Beverage", Price: 90, Description: "Yogurt drink",
		Ingredients: []string{"mango", "yogurt"}, Vegetarian: true, SpiceLevel: menu.SpiceNone, PreparationTime: 5,
	})
	require.NoError(t, err)

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(regexp.QuoteMeta(insertSQL))
	prep.ExpectExec().
		WithArgs("Mango Lassi", "Beverage", 90.0, "Yogurt drink", `["mango","yogurt"]`, true, false, "none", 5).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.SaveAll(context.Background(), []menu.Item{it}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveAll_RollsBackOnError(t *testing.T) {
	repo, mock := newRepo(t)
	it := menu.Reconstruct(menu.Attrs{Name: "Dup", Category: "X", Price: 1, PreparationTime: 1})

	mock.ExpectBegin()
	mock.ExpectPrepare(regexp.QuoteMeta(insertSQL)).ExpectExec().
		WillReturnError(errors.New("duplicate key value"))
	mock.ExpectRollback()

	err := repo.SaveAll(context.Background(), []menu.Item{it})
	var dbErr *db.Error
	require.ErrorAs(t, err, &dbErr)
	assert.Equal(t, db.OpInsert, dbErr.Op)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveAll_Empty(t *testing.T) {
	repo, mock := newRepo(t)
	require.NoError(t, repo.SaveAll(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}
