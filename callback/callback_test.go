package callback

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultCodeExtractsFailureCode(t *testing.T) {
	assert.Equal(t, -7, ResultCode(&Failure{Code: -7}))
}

func TestResultCodeDefaultsToMinusOneForPlainError(t *testing.T) {
	assert.Equal(t, -1, ResultCode(errors.New("boom")))
}

func TestResultCodeDefaultsToMinusOneForNil(t *testing.T) {
	assert.Equal(t, -1, ResultCode(nil))
}

func TestSetCallsTreatNilHooksAsSuccess(t *testing.T) {
	s := Set{}
	assert.Nil(t, s.CallCreate(context.Background()))
	assert.Nil(t, s.CallStart(context.Background()))
	assert.Nil(t, s.CallStop(context.Background()))
	assert.Nil(t, s.CallDestroy(context.Background()))
	assert.Nil(t, s.CallIterate(context.Background(), nil))
}

func TestSetDispatchesToSuppliedHooks(t *testing.T) {
	var called []string
	s := Set{
		OnCreate:  func(ctx context.Context) error { called = append(called, "create"); return nil },
		OnStart:   func(ctx context.Context) error { called = append(called, "start"); return &Failure{Code: -2} },
		OnStop:    func(ctx context.Context) error { called = append(called, "stop"); return nil },
		OnDestroy: func(ctx context.Context) error { called = append(called, "destroy"); return nil },
	}

	assert.Nil(t, s.CallCreate(context.Background()))
	err := s.CallStart(context.Background())
	assert.Equal(t, -2, ResultCode(err))
	assert.Nil(t, s.CallStop(context.Background()))
	assert.Nil(t, s.CallDestroy(context.Background()))
	assert.Equal(t, []string{"create", "start", "stop", "destroy"}, called)
}
