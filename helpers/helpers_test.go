package helpers

import (
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFoldErrors(t *testing.T) {
	t.Parallel()

	assert.NoError(t, FoldErrors(nil))
	assert.NoError(t, FoldErrors([]error{nil, nil}))

	single := errors.NotFoundf("field Temp")
	assert.True(t, errors.IsNotFound(FoldErrors([]error{nil, single})))

	err := FoldErrors([]error{fmt.Errorf("one"), nil, fmt.Errorf("two")})
	require.Error(t, err)
	assert.Equal(t, "one\ntwo", err.Error())
}

func TestIntDefault(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 300*time.Second, IntSecondDefault(0, 300*time.Second))
	assert.Equal(t, 7*time.Second, IntSecondDefault(7, 300*time.Second))
	assert.Equal(t, 500*time.Millisecond, IntMillisecondDefault(0, 500*time.Millisecond))
	assert.Equal(t, 20*time.Millisecond, IntMillisecondDefault(20, time.Second))
}

func TestMockHTTPRoutes(t *testing.T) {
	t.Parallel()

	m := &MockHTTP{Routes: map[string][]byte{"/a?x=1": []byte("alpha")}}
	client := http.Client{Transport: m}

	resp, err := client.Get("http://host/a?x=1")
	require.NoError(t, err)
	b, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "alpha", string(b))

	resp, err = client.Get("http://host/b")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, 404, resp.StatusCode)

	assert.Equal(t, []string{"http://host/a?x=1", "http://host/b"}, m.Requests())
}
