package request_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lunchpass/lunchpass-api/internal/api/handler/v1/request"
)

const (
	validKidID     = "1b4e28ba-2fa1-41d2-883f-0016d3cca427"
	validProductID = "6fa459ea-ee8a-4ca4-894e-db77e160355e"
)

func TestSignupRequestValidate(t *testing.T) {
	valid := request.SignupRequest{
		Email:           "parent@example.com",
		Password:        "sunny1234",
		ConfirmPassword: "sunny1234",
		Name:            "A Parent",
	}
	assert.NoError(t, valid.Validate())

	t.Run("password needs a digit", func(t *testing.T) {
		req := valid
		req.Password = "onlyletters"
		req.ConfirmPassword = "onlyletters"
		assert.Error(t, req.Validate())
	})

	t.Run("password needs eight characters", func(t *testing.T) {
		req := valid
		req.Password = "ab1"
		req.ConfirmPassword = "ab1"
		assert.Error(t, req.Validate())
	})

	t.Run("confirmation must match", func(t *testing.T) {
		req := valid
		req.ConfirmPassword = "sunny1235"
		assert.Error(t, req.Validate())
	})

	t.Run("email must be well formed", func(t *testing.T) {
		req := valid
		req.Email = "not-an-email"
		assert.Error(t, req.Validate())
	})
}

func TestPlaceOrderRequestValidate(t *testing.T) {
	valid := request.PlaceOrderRequest{
		KidID: validKidID,
		Lines: []request.OrderLineRequest{
			{ProductID: validProductID, Quantity: 2},
		},
	}
	assert.NoError(t, valid.Validate())

	t.Run("kid id must be a uuid", func(t *testing.T) {
		req := valid
		req.KidID = "42"
		assert.Error(t, req.Validate())
	})

	t.Run("at least one line", func(t *testing.T) {
		req := valid
		req.Lines = nil
		assert.Error(t, req.Validate())
	})

	t.Run("line quantity must be positive", func(t *testing.T) {
		req := valid
		req.Lines = []request.OrderLineRequest{{ProductID: validProductID, Quantity: 0}}
		assert.Error(t, req.Validate())
	})
}

func TestUpdateOrderStatusRequestValidate(t *testing.T) {
	req := request.UpdateOrderStatusRequest{Status: "canceled"}
	assert.NoError(t, req.Validate())

	req.Status = "shipped"
	assert.Error(t, req.Validate())
}

func TestSchoolRequestValidate(t *testing.T) {
	valid := request.SchoolRequest{
		Name:        "École Jules Ferry",
		OpeningHour: "08:00",
		ClosingHour: "14:00",
		Monday:      true,
	}
	assert.NoError(t, valid.Validate())

	t.Run("hours must be HH:MM", func(t *testing.T) {
		req := valid
		req.OpeningHour = "8am"
		assert.Error(t, req.Validate())

		req.OpeningHour = "25:00"
		assert.Error(t, req.Validate())
	})

	t.Run("name is required", func(t *testing.T) {
		req := valid
		req.Name = ""
		assert.Error(t, req.Validate())
	})
}
