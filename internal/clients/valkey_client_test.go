package clients

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/failsafe-go/failsafe-go/circuitbreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valkey-io/valkey-go"
	"github.com/valkey-io/valkey-go/mock"
	"go.uber.org/mock/gomock"
)

func TestIsConnectionError(t *testing.T) {
	assert.False(t, isConnectionError(nil))
	assert.True(t, isConnectionError(errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")))
	assert.True(t, isConnectionError(errors.New("unexpected EOF")))
	assert.True(t, isConnectionError(errors.New("read tcp: i/o timeout")))
	assert.False(t, isConnectionError(errors.New("WRONGTYPE Operation against a key")))
}

func TestFormatScore(t *testing.T) {
	assert.Equal(t, "0.625", formatScore(0.625))
	assert.Equal(t, "-1", formatScore(-1))
	assert.Equal(t, "0", formatScore(0))
}

func newMockValkey(t *testing.T) (*ValkeyClient, *mock.Client) {
	t.Helper()
	ctrl := gomock.NewController(t)
	client := mock.NewClient(ctrl)
	return newValkeyClient(client, valkey.ClientOption{}), client
}

func TestValkeyClient_GetScoreHit(t *testing.T) {
	vc, client := newMockValkey(t)
	client.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "sentiment:score:vader:abc")).
		Return(mock.Result(mock.ValkeyString("0.5")))

	score, ok, err := vc.GetScore(context.Background(), "sentiment:score:vader:abc")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0.5, score)
}

func TestValkeyClient_GetScoreMissIsNotRetried(t *testing.T) {
	vc, client := newMockValkey(t)
	client.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "missing")).
		Return(mock.Result(mock.ValkeyNil())).
		Times(1)

	score, ok, err := vc.GetScore(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, score)
}

func TestValkeyClient_GetScoreNotAFloat(t *testing.T) {
	vc, client := newMockValkey(t)
	client.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "k")).
		Return(mock.Result(mock.ValkeyString("positive")))

	_, ok, err := vc.GetScore(context.Background(), "k")
	require.Error(t, err)
	assert.False(t, ok)
}

func TestValkeyClient_SetScoreUsesTTL(t *testing.T) {
	vc, client := newMockValkey(t)
	client.EXPECT().
		Do(gomock.Any(), mock.Match("SET", "k", "0.625", "EX", "3600")).
		Return(mock.Result(mock.ValkeyString("OK")))

	require.NoError(t, vc.SetScore(context.Background(), "k", 0.625, time.Hour))
}

func TestValkeyClient_DoWithRetryRebuildsCommand(t *testing.T) {
	vc, client := newMockValkey(t)
	gomock.InOrder(
		client.EXPECT().
			Do(gomock.Any(), mock.Match("GET", "k")).
			Return(mock.ErrorResult(errors.New("READONLY replica"))),
		client.EXPECT().
			Do(gomock.Any(), mock.Match("GET", "k")).
			Return(mock.Result(mock.ValkeyString("-0.25"))),
	)

	builds := 0
	res := vc.DoWithRetry(context.Background(), func(c valkey.Client) valkey.Completed {
		builds++
		return c.B().Get().Key("k").Build()
	}, VALKEY_RETRIES)

	require.NoError(t, res.Error())
	score, err := res.AsFloat64()
	require.NoError(t, err)
	assert.Equal(t, -0.25, score)
	assert.Equal(t, 2, builds)
}

func TestValkeyClient_DoWithRetryGivesUp(t *testing.T) {
	vc, client := newMockValkey(t)
	client.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		Return(mock.ErrorResult(errors.New("LOADING"))).
		Times(VALKEY_RETRIES)

	err := vc.SetScore(context.Background(), "k", 0.1, time.Minute)
	assert.EqualError(t, err, "LOADING")
}

func TestValkeyClient_BreakerOpensAndFailsFast(t *testing.T) {
	vc, client := newMockValkey(t)
	client.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		Return(mock.ErrorResult(errors.New("i/o timeout"))).
		Times(VALKEY_BREAKER_FAILURES * VALKEY_RETRIES)

	for i := 0; i < VALKEY_BREAKER_FAILURES; i++ {
		_, _, err := vc.GetScore(context.Background(), "k")
		require.Error(t, err)
		assert.NotErrorIs(t, err, circuitbreaker.ErrOpen)
	}

	// The mock fails the test on any Do beyond the expected count.
	start := time.Now()
	_, _, err := vc.GetScore(context.Background(), "k")
	assert.ErrorIs(t, err, circuitbreaker.ErrOpen)
	assert.Less(t, time.Since(start), VALKEY_RETRY_DELAY)
	assert.True(t, vc.breaker.IsOpen())
}

func TestValkeyClient_ReconnectSkippedWithoutAddress(t *testing.T) {
	vc, _ := newMockValkey(t)

	vc.reconnectAsync()
	assert.False(t, vc.reconnecting.Load())
}

func TestStateToFloat(t *testing.T) {
	assert.Equal(t, 0.0, stateToFloat(circuitbreaker.ClosedState))
	assert.Equal(t, 1.0, stateToFloat(circuitbreaker.HalfOpenState))
	assert.Equal(t, 2.0, stateToFloat(circuitbreaker.OpenState))
}
