package prompt_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"fleetdeck.dev/launcher/internal/prompt"
	"github.com/stretchr/testify/assert"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("cannot read")
}

func TestAwaitKeypress(t *testing.T) {
	buffer := bytes.Buffer{}
	err := prompt.AwaitKeypress(&buffer, strings.NewReader("x"))
	assert.NoError(t, err)
	assert.Contains(t, buffer.String(), "Press any key to exit")
}

func TestAwaitKeypressClosedInput(t *testing.T) {
	buffer := bytes.Buffer{}
	err := prompt.AwaitKeypress(&buffer, strings.NewReader(""))
	assert.NoError(t, err)
}

func TestAwaitKeypressFailingInput(t *testing.T) {
	buffer := bytes.Buffer{}
	err := prompt.AwaitKeypress(&buffer, failingReader{})
	assert.Error(t, err)
}
