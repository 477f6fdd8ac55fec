package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDerive(t *testing.T) {
	now := time.Now()
	withData := Reduce(Initial(now), FetchSucceeded{Payload: testPayload(25), At: now})
	stale := withData
	stale.Err = "timeout"

	tests := []struct {
		name  string
		state State
		want  View
	}{
		{
			name:  "first load",
			state: Initial(now),
			want:  View{Kind: ViewSkeleton},
		},
		{
			name:  "failure before any data",
			state: State{Err: "gateway unreachable"},
			want:  View{Kind: ViewError, Message: "gateway unreachable"},
		},
		{
			name:  "failure while retrying without data",
			state: State{Err: "gateway unreachable", Loading: true},
			want:  View{Kind: ViewError, Message: "gateway unreachable"},
		},
		{
			name:  "nothing at all",
			state: State{},
			want:  View{Kind: ViewEmpty},
		},
		{
			name:  "fresh content",
			state: withData,
			want:  View{Kind: ViewContent},
		},
		{
			name:  "content refreshing",
			state: Reduce(withData, LoadingStarted{}),
			want:  View{Kind: ViewContent, Spinner: true},
		},
		{
			name:  "stale content",
			state: stale,
			want:  View{Kind: ViewContent, StaleBanner: true, Message: "timeout"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Derive(tt.state))
		})
	}
}

func TestViewKind_String(t *testing.T) {
	assert.Equal(t, "skeleton", ViewSkeleton.String())
	assert.Equal(t, "error", ViewError.String())
	assert.Equal(t, "empty", ViewEmpty.String())
	assert.Equal(t, "content", ViewContent.String())
	assert.Equal(t, "unknown", ViewKind(42).String())
}
