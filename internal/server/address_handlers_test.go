package server

import (
	"fmt"
	"net/http"
	"testing"

	"pickmypit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addressBody(street string, isDefault bool) map[string]interface{} {
	return map[string]interface{}{
		"street":     street,
		"city":       "Lagos",
		"state":      "Lagos",
		"postalCode": "100001",
		"country":    "Nigeria",
		"isDefault":  isDefault,
	}
}

func TestAddressesRequireAuth(t *testing.T) {
	app, _, _ := newTestServer(t)

	resp, _ := doRequest(t, app, http.MethodGet, "/api/addresses/", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCreateAddressValidation(t *testing.T) {
	app, _, db := newTestServer(t)
	user := seedUser(t, db, "addr@example.com")

	body := addressBody("12 Marina Road", false)
	body["postalCode"] = "12"
	resp, env := doRequest(t, app, http.MethodPost, "/api/addresses/", body, userCookie(t, user))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", env.Code)

	resp, env = doRequest(t, app, http.MethodPost, "/api/addresses/",
		addressBody("12 Marina Road", false), userCookie(t, user))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var addr models.Address
	decodeData(t, env, &addr)
	assert.Equal(t, user.ID, addr.UserID)
	// The first address becomes the default automatically.
	assert.True(t, addr.IsDefault)
}

func TestDefaultAddressInvariant(t *testing.T) {
	app, _, db := newTestServer(t)
	user := seedUser(t, db, "default@example.com")
	ck := userCookie(t, user)

	_, env := doRequest(t, app, http.MethodPost, "/api/addresses/",
		addressBody("1 First Street", false), ck)
	var first models.Address
	decodeData(t, env, &first)

	_, env = doRequest(t, app, http.MethodPost, "/api/addresses/",
		addressBody("2 Second Street", false), ck)
	var second models.Address
	decodeData(t, env, &second)
	assert.False(t, second.IsDefault)

	resp, env := doRequest(t, app, http.MethodPut,
		fmt.Sprintf("/api/addresses/%d/default", second.ID), nil, ck)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var promoted models.Address
	decodeData(t, env, &promoted)
	assert.True(t, promoted.IsDefault)

	// Exactly one default at any time.
	var count int64
	require.NoError(t, db.Model(&models.Address{}).
		Where("user_id = ? AND is_default = ?", user.ID, true).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	resp, env = doRequest(t, app, http.MethodGet, "/api/addresses/default", nil, ck)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var def models.Address
	decodeData(t, env, &def)
	assert.Equal(t, second.ID, def.ID)
}

func TestAddressOwnershipBoundary(t *testing.T) {
	app, _, db := newTestServer(t)
	owner := seedUser(t, db, "ado@example.com")
	intruder := seedUser(t, db, "adi@example.com")

	_, env := doRequest(t, app, http.MethodPost, "/api/addresses/",
		addressBody("7 Private Close", false), userCookie(t, owner))
	var addr models.Address
	decodeData(t, env, &addr)

	// A foreign address reads as missing, not forbidden.
	resp, env := doRequest(t, app, http.MethodGet,
		fmt.Sprintf("/api/addresses/%d", addr.ID), nil, userCookie(t, intruder))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", env.Code)

	resp, _ = doRequest(t, app, http.MethodDelete,
		fmt.Sprintf("/api/addresses/%d", addr.ID), nil, userCookie(t, intruder))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var still models.Address
	assert.NoError(t, db.First(&still, addr.ID).Error)
}
