package dao_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"testing"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lunchpass/lunchpass-api/internal/repository/dao"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("could not construct docker pool: %v", err)
	}
	if err = pool.Client.Ping(); err != nil {
		log.Fatalf("could not connect to docker: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=test",
			"POSTGRES_PASSWORD=test",
			"POSTGRES_DB=lunchpass_test",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}

	dsn := fmt.Sprintf("host=localhost port=%s user=test password=test dbname=lunchpass_test sslmode=disable",
		resource.GetPort("5432/tcp"))

	if err = pool.Retry(func() error {
		testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			return err
		}

		sqlDB, err := testDB.DB()
		if err != nil {
			return err
		}

		return sqlDB.Ping()
	}); err != nil {
		log.Fatalf("could not connect to postgres: %v", err)
	}

	if err = dao.InitTables(testDB); err != nil {
		log.Fatalf("could not migrate tables: %v", err)
	}

	code := m.Run()

	if err = pool.Purge(resource); err != nil {
		log.Fatalf("could not purge container: %v", err)
	}

	os.Exit(code)
}

func createKid(t *testing.T, name string, tokens ...string) dao.Kid {
	t.Helper()

	userDAO := dao.NewUserDAO(testDB)
	parent, err := userDAO.Insert(context.Background(), dao.User{
		Email:    fmt.Sprintf("%s-parent-%d@example.com", name, len(tokens)),
		Password: "hashed",
		Name:     name + " parent",
		Role:     "parent",
	})
	require.NoError(t, err)

	rfidTokens := make([]dao.KidRFIDToken, len(tokens))
	for i, token := range tokens {
		rfidTokens[i] = dao.KidRFIDToken{Token: token}
	}

	kidDAO := dao.NewKidDAO(testDB)
	kid, err := kidDAO.Insert(context.Background(), dao.Kid{
		Name:       name,
		ParentID:   parent.ID,
		RFIDTokens: rfidTokens,
		IsActive:   true,
	})
	require.NoError(t, err)

	return kid
}

func TestUserDAOEmailUnique(t *testing.T) {
	userDAO := dao.NewUserDAO(testDB)

	_, err := userDAO.Insert(context.Background(), dao.User{
		Email:    "dup@example.com",
		Password: "hashed",
		Name:     "First",
		Role:     "parent",
	})
	require.NoError(t, err)

	_, err = userDAO.Insert(context.Background(), dao.User{
		Email:    "dup@example.com",
		Password: "hashed",
		Name:     "Second",
		Role:     "parent",
	})
	assert.ErrorIs(t, err, dao.ErrUserEmailExists)
}

func TestKidDAORFIDTokenUnique(t *testing.T) {
	createKid(t, "rfid-owner", "CARD-0001")

	userDAO := dao.NewUserDAO(testDB)
	parent, err := userDAO.Insert(context.Background(), dao.User{
		Email:    "second-parent@example.com",
		Password: "hashed",
		Name:     "Second parent",
		Role:     "parent",
	})
	require.NoError(t, err)

	kidDAO := dao.NewKidDAO(testDB)
	_, err = kidDAO.Insert(context.Background(), dao.Kid{
		Name:       "Copycat",
		ParentID:   parent.ID,
		RFIDTokens: []dao.KidRFIDToken{{Token: "CARD-0001"}},
		IsActive:   true,
	})
	assert.ErrorIs(t, err, dao.ErrRFIDTokenInUse)
}

func TestKidDAOFindByRFIDToken(t *testing.T) {
	kid := createKid(t, "card-holder", "CARD-0002", "CARD-0003")

	kidDAO := dao.NewKidDAO(testDB)
	found, err := kidDAO.FindByRFIDToken(context.Background(), "CARD-0003")
	require.NoError(t, err)
	assert.Equal(t, kid.ID, found.ID)

	_, err = kidDAO.FindByRFIDToken(context.Background(), "CARD-9999")
	assert.ErrorIs(t, err, dao.ErrKidNotFound)
}

func TestSpendingDAOIncrementLockedSerializes(t *testing.T) {
	kid := createKid(t, "spender")

	orderDAO := dao.NewOrderDAO(testDB)
	spendingDAO := dao.NewSpendingDAO(testDB)

	const workers = 8
	delta := decimal.RequireFromString("2.50")

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			err := orderDAO.Transaction(context.Background(), func(tx *gorm.DB) error {
				_, err := spendingDAO.IncrementLocked(tx, kid.ID, 2026, 3, delta)
				return err
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	spending, err := spendingDAO.GetOrCreate(context.Background(), kid.ID, 2026, 3)
	require.NoError(t, err)
	assert.True(t, spending.Amount.Equal(decimal.RequireFromString("20.00")),
		"concurrent increments must not lose updates, got %s", spending.Amount)
}

func TestSpendingDAOGetOrCreateConcurrentFirstTouch(t *testing.T) {
	kid := createKid(t, "first-touch")

	spendingDAO := dao.NewSpendingDAO(testDB)

	const workers = 4
	ids := make([]string, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			spending, err := spendingDAO.GetOrCreate(context.Background(), kid.ID, 2026, 5)
			assert.NoError(t, err, "losing the insert race must not surface an error")
			ids[i] = spending.ID
		}(i)
	}
	wg.Wait()

	for _, id := range ids[1:] {
		assert.Equal(t, ids[0], id, "every caller must land on the same period row")
	}
}

func TestOrderDAOTransactionRollsBackEverything(t *testing.T) {
	kid := createKid(t, "rollback")

	orderDAO := dao.NewOrderDAO(testDB)
	spendingDAO := dao.NewSpendingDAO(testDB)

	boom := fmt.Errorf("limit exceeded")
	err := orderDAO.Transaction(context.Background(), func(tx *gorm.DB) error {
		order, err := orderDAO.InsertOrder(tx, dao.Order{
			KidID:       kid.ID,
			ParentID:    kid.ParentID,
			TotalAmount: decimal.RequireFromString("12.00"),
			Status:      "completed",
		})
		if err != nil {
			return err
		}

		if _, err = orderDAO.InsertLines(tx, []dao.OrderLine{{
			OrderID:     order.ID,
			ProductID:   order.ID, // any uuid works, no FK on product
			ProductName: "Sandwich",
			UnitPrice:   decimal.RequireFromString("12.00"),
			Quantity:    1,
			GrossTotal:  decimal.RequireFromString("12.00"),
			NetTotal:    decimal.RequireFromString("12.00"),
		}}); err != nil {
			return err
		}

		if _, err = spendingDAO.IncrementLocked(tx, kid.ID, 2026, 4, decimal.RequireFromString("12.00")); err != nil {
			return err
		}

		return boom
	})
	assert.ErrorIs(t, err, boom)

	orders, total, err := orderDAO.FindByKidID(context.Background(), kid.ID, "", 10, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, orders)

	spending, err := spendingDAO.GetOrCreate(context.Background(), kid.ID, 2026, 4)
	require.NoError(t, err)
	assert.True(t, spending.Amount.IsZero(), "rolled back increment must not persist")
}

func TestOrderDAOListingFiltersAndPaginates(t *testing.T) {
	kid := createKid(t, "lister")

	orderDAO := dao.NewOrderDAO(testDB)
	for i := 0; i < 3; i++ {
		err := orderDAO.Transaction(context.Background(), func(tx *gorm.DB) error {
			status := "completed"
			if i == 2 {
				status = "canceled"
			}
			_, err := orderDAO.InsertOrder(tx, dao.Order{
				KidID:       kid.ID,
				ParentID:    kid.ParentID,
				TotalAmount: decimal.NewFromInt(int64(i + 1)),
				Status:      status,
			})
			return err
		})
		require.NoError(t, err)
	}

	all, total, err := orderDAO.FindByKidID(context.Background(), kid.ID, "", 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, all, 3)

	completed, total, err := orderDAO.FindByKidID(context.Background(), kid.ID, "completed", 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, completed, 2)

	page, total, err := orderDAO.FindByParentID(context.Background(), kid.ParentID, "", 2, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, page, 2)
}
