package loader_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"rules-service/core/loader"
	"rules-service/core/scheduler"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFeature struct {
	name    string
	enabled bool
	initErr error
	inited  bool
}

func (f *fakeFeature) Name() string    { return f.name }
func (f *fakeFeature) IsEnabled() bool { return f.enabled }
func (f *fakeFeature) Load(app fiber.Router) error {
	app.Get("/"+f.name, func(c *fiber.Ctx) error { return c.SendString(f.name) })
	return nil
}
func (f *fakeFeature) Init(context.Context) error {
	f.inited = true
	return f.initErr
}
func (f *fakeFeature) Jobs() []scheduler.Job {
	return []scheduler.Job{{Name: f.name + "_job"}}
}

func TestManager(t *testing.T) {
	on := &fakeFeature{name: "rules", enabled: true}
	off := &fakeFeature{name: "domestic", enabled: false}

	mgr := loader.NewManager()
	mgr.Register(on)
	mgr.Register(off)

	require.NoError(t, mgr.InitAll(context.Background()))
	assert.True(t, on.inited)
	assert.False(t, off.inited)

	jobs := mgr.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, "rules_job", jobs[0].Name)

	app := fiber.New()
	require.NoError(t, mgr.LoadAll(app))

	resp, err := app.Test(httptest.NewRequest("GET", "/rules", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/domestic", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestManagerInitFailure(t *testing.T) {
	mgr := loader.NewManager()
	mgr.Register(&fakeFeature{name: "rules", enabled: true, initErr: errors.New("db down")})

	err := mgr.InitAll(context.Background())
	assert.ErrorContains(t, err, "rules")
}
