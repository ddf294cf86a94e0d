package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paramsForQuery(t *testing.T, query string) *Params {
	t.Helper()

	app := fiber.New()
	var got *Params
	app.Get("/", func(c *fiber.Ctx) error {
		got = GetParams(c)
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/"+query, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	return got
}

func TestGetParamsDefaults(t *testing.T) {
	p := paramsForQuery(t, "")
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultLimit, p.Limit)
	assert.Equal(t, 0, p.Offset)
}

func TestGetParamsClampsLimit(t *testing.T) {
	p := paramsForQuery(t, "?page=3&limit=500")
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, MaxLimit, p.Limit)
	assert.Equal(t, 2*MaxLimit, p.Offset)
}

func TestGetParamsInvalidValues(t *testing.T) {
	p := paramsForQuery(t, "?page=-1&limit=0")
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultLimit, p.Limit)
}

func TestGetMeta(t *testing.T) {
	meta := GetMeta(&Params{Page: 2, Limit: 10}, 25)

	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNext)
	assert.True(t, meta.HasPrev)

	last := GetMeta(&Params{Page: 3, Limit: 10}, 25)
	assert.False(t, last.HasNext)
}
