package spira

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeArrayPreservesOrder(t *testing.T) {
	for _, n := range []int{0, 1, 5} {
		t.Run(fmt.Sprintf("%d projects", n), func(t *testing.T) {
			items := make([]any, 0, n)
			for i := range n {
				items = append(items, projectJSON(fmt.Sprintf("Project%d", i), int64(100-i)))
			}

			projects, err := decodeArray([]byte(mustJSON(t, items)), scope{}, decodeProject)
			require.NoError(t, err)
			require.Len(t, projects, n)
			for i, p := range projects {
				assert.Equal(t, fmt.Sprintf("Project%d", i), p.Name())
				assert.Equal(t, int64(100-i), p.ID())
			}
		})
	}
}

func TestDecodeArrayErrors(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantIndex int
	}{
		{name: "not json", body: `Server Error`, wantIndex: -1},
		{name: "object instead of array", body: `{"ProjectId":1}`, wantIndex: -1},
		{name: "sentinel string", body: `"Cannot find the supplied project id in the system"`, wantIndex: -1},
		{name: "non-object element", body: `[1]`, wantIndex: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeArray([]byte(tt.body), scope{}, decodeProject)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDecode)

			var malformed *MalformedPayloadError
			assert.True(t, errors.As(err, &malformed))

			var elem *ElementError
			if tt.wantIndex < 0 {
				assert.False(t, errors.As(err, &elem))
				return
			}
			require.True(t, errors.As(err, &elem))
			assert.Equal(t, tt.wantIndex, elem.Index)
		})
	}
}

func TestDecodeArrayFailsFastWithIndex(t *testing.T) {
	bad := projectJSON("Broken", 2)
	delete(bad, "CreationDate")
	body := mustJSON(t, []any{projectJSON("Good", 1), bad, projectJSON("Never", 3)})

	projects, err := decodeArray([]byte(body), scope{}, decodeProject)
	assert.Nil(t, projects)

	var elem *ElementError
	require.True(t, errors.As(err, &elem))
	assert.Equal(t, 1, elem.Index)

	var missing *MissingFieldError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "CreationDate", missing.Field)
}
