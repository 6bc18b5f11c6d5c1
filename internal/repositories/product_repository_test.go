package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/models"
	repository "github.com/aaravmahajanofficial/multivendor-marketplace/internal/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var productRowColumns = []string{"id", "store_id", "category_id", "name", "description", "price", "stock", "created_at", "updated_at"}

func TestProductRepository_CreateProduct(t *testing.T) {
	expectedSQL := regexp.QuoteMeta(`INSERT INTO products (store_id, category_id, name, description, price, stock) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at, updated_at`)

	t.Run("Success", func(t *testing.T) {
		// Arrange
		db, mock := newMockDB(t)
		repo := repository.NewProductRepo(db)
		product := &models.Product{
			StoreID: uuid.New(),
			Name:    "Blue Mug",
			Price:   decimal.RequireFromString("10.00"),
			Stock:   5,
		}
		newID := uuid.New()
		now := time.Now()

		mock.ExpectQuery(expectedSQL).
			WithArgs(product.StoreID, nil, product.Name, product.Description, product.Price, product.Stock).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(newID.String(), now, now))

		// Act
		err := repo.CreateProduct(t.Context(), product)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, newID, product.ID)
		assert.WithinDuration(t, now, product.CreatedAt, time.Second)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProductRepository_GetProductByID(t *testing.T) {
	productID := uuid.New()
	storeID := uuid.New()
	categoryID := uuid.New()
	expectedSQL := regexp.QuoteMeta(`FROM products WHERE id = $1`)

	t.Run("Success", func(t *testing.T) {
		// Arrange
		db, mock := newMockDB(t)
		repo := repository.NewProductRepo(db)
		now := time.Now()

		mock.ExpectQuery(expectedSQL).
			WithArgs(productID).
			WillReturnRows(sqlmock.NewRows(productRowColumns).
				AddRow(productID.String(), storeID.String(), categoryID.String(), "Blue Mug", "Ceramic", "10.00", 5, now, now))

		// Act
		product, err := repo.GetProductByID(t.Context(), productID)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, productID, product.ID)
		assert.Equal(t, storeID, product.StoreID)
		require.NotNil(t, product.CategoryID)
		assert.Equal(t, categoryID, *product.CategoryID)
		assert.True(t, decimal.RequireFromString("10.00").Equal(product.Price))
		assert.Equal(t, 5, product.Stock)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - Without category", func(t *testing.T) {
		// Arrange
		db, mock := newMockDB(t)
		repo := repository.NewProductRepo(db)
		now := time.Now()

		mock.ExpectQuery(expectedSQL).
			WithArgs(productID).
			WillReturnRows(sqlmock.NewRows(productRowColumns).
				AddRow(productID.String(), storeID.String(), nil, "Blue Mug", "", "10.00", 0, now, now))

		// Act
		product, err := repo.GetProductByID(t.Context(), productID)

		// Assert
		require.NoError(t, err)
		assert.Nil(t, product.CategoryID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not found", func(t *testing.T) {
		// Arrange
		db, mock := newMockDB(t)
		repo := repository.NewProductRepo(db)

		mock.ExpectQuery(expectedSQL).WithArgs(productID).WillReturnRows(sqlmock.NewRows(productRowColumns))

		// Act
		product, err := repo.GetProductByID(t.Context(), productID)

		// Assert
		require.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, product)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProductRepository_ListProducts(t *testing.T) {

	t.Run("Success - In stock filter for a store", func(t *testing.T) {
		// Arrange
		db, mock := newMockDB(t)
		repo := repository.NewProductRepo(db)
		storeID := uuid.New()
		now := time.Now()

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM products WHERE store_id = $1 AND stock > 0`)).
			WithArgs(storeID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		mock.ExpectQuery(regexp.QuoteMeta(`FROM products WHERE store_id = $1 AND stock > 0 ORDER BY created_at DESC LIMIT $2 OFFSET $3`)).
			WithArgs(storeID, 10, 10).
			WillReturnRows(sqlmock.NewRows(productRowColumns).
				AddRow(uuid.NewString(), storeID.String(), nil, "Blue Mug", "", "10.00", 5, now, now))

		// Act
		products, total, err := repo.ListProducts(t.Context(), models.ProductFilter{StoreID: &storeID, InStock: true, Page: 2, PageSize: 10})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Len(t, products, 1)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error - Count fails", func(t *testing.T) {
		// Arrange
		db, mock := newMockDB(t)
		repo := repository.NewProductRepo(db)
		dbErr := errors.New("count failed")

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM products`)).WillReturnError(dbErr)

		// Act
		products, total, err := repo.ListProducts(t.Context(), models.ProductFilter{Page: 1, PageSize: 10})

		// Assert
		require.ErrorIs(t, err, dbErr)
		assert.Nil(t, products)
		assert.Zero(t, total)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProductRepository_ReduceStock(t *testing.T) {
	productID := uuid.New()
	updateSQL := regexp.QuoteMeta(`SET stock = stock - $1, updated_at = NOW() WHERE id = $2 AND stock >= $1`)
	lookupSQL := regexp.QuoteMeta(`SELECT name, stock FROM products WHERE id = $1`)

	t.Run("Success", func(t *testing.T) {
		// Arrange
		db, mock := newMockDB(t)
		repo := repository.NewProductRepo(db)

		mock.ExpectExec(updateSQL).WithArgs(3, productID).WillReturnResult(sqlmock.NewResult(0, 1))

		// Act
		err := repo.ReduceStock(t.Context(), productID, 3)

		// Assert
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Not enough stock", func(t *testing.T) {
		// Arrange
		db, mock := newMockDB(t)
		repo := repository.NewProductRepo(db)
		transactor := repository.NewTransactor(db)

		mock.ExpectBegin()
		mock.ExpectExec(updateSQL).WithArgs(1, productID).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(lookupSQL).WithArgs(productID).
			WillReturnRows(sqlmock.NewRows([]string{"name", "stock"}).AddRow("Blue Mug", 0))
		mock.ExpectRollback()

		// Act
		err := transactor.WithinTransaction(t.Context(), func(ctx context.Context) error {
			return repo.ReduceStock(ctx, productID, 1)
		})

		// Assert
		var stockErr *repository.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, "Blue Mug", stockErr.ProductName)
		assert.Equal(t, 1, stockErr.Requested)
		assert.Equal(t, 0, stockErr.Available)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Product deleted", func(t *testing.T) {
		// Arrange
		db, mock := newMockDB(t)
		repo := repository.NewProductRepo(db)

		mock.ExpectExec(updateSQL).WithArgs(1, productID).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(lookupSQL).WithArgs(productID).WillReturnRows(sqlmock.NewRows([]string{"name", "stock"}))

		// Act
		err := repo.ReduceStock(t.Context(), productID, 1)

		// Assert
		require.ErrorIs(t, err, repository.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProductRepository_DeleteProduct(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewProductRepo(db)
	productID := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM products WHERE id = $1`)).
		WithArgs(productID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteProduct(t.Context(), productID)

	require.ErrorIs(t, err, repository.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
