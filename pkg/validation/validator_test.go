package validation

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleForm struct {
	Username string `form:"username" binding:"required,username"`
	Password string `form:"password" binding:"required,pwd"`
	Email    string `form:"email" binding:"required,email"`
	Title    string `form:"title" binding:"omitempty,posttitle"`
}

func bindForm(t *testing.T, form url.Values) error {
	t.Helper()
	gin.SetMode(gin.TestMode)
	req := httptest.NewRequest("POST", "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req

	var s sampleForm
	return c.ShouldBind(&s)
}

func TestInitAliases(t *testing.T) {
	Init()

	err := bindForm(t, url.Values{
		"username": {"alice"},
		"password": {"longenough"},
		"email":    {"alice@example.com"},
	})
	assert.NoError(t, err)

	err = bindForm(t, url.Values{
		"username": {"ab"},
		"password": {"short"},
		"email":    {"not-an-email"},
	})
	require.Error(t, err)

	details := ToDetails(err)
	// Field names come from the form tags, not the struct fields.
	assert.Contains(t, details, "username")
	assert.Contains(t, details, "password")
	assert.Contains(t, details, "email")
}

func TestToDetailsMessages(t *testing.T) {
	Init()

	err := bindForm(t, url.Values{"email": {"a@b.co"}, "username": {"alice"}})
	require.Error(t, err)
	details := ToDetails(err)
	assert.Equal(t, "is required", details["password"])

	err = bindForm(t, url.Values{
		"username": {"alice"},
		"password": {"longenough"},
		"email":    {"nope"},
	})
	require.Error(t, err)
	assert.Equal(t, "must be a valid email", ToDetails(err)["email"])
}

func TestToDetailsNil(t *testing.T) {
	assert.Nil(t, ToDetails(nil))
}

func TestToDetailsFallback(t *testing.T) {
	details := ToDetails(assert.AnError)
	assert.Equal(t, map[string]string{"payload": "invalid payload"}, details)
}
