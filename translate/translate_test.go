package translate

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("label foo missing", From("label %v missing", "foo"))
	assert.Equal("plain", From("plain"))
}

func TestFprintf(t *testing.T) {
	assert := assert.New(t)

	buff := &bytes.Buffer{}
	n, err := Fprintf(buff, "line %d: %v\n", 3, "oops")
	assert.NoError(err)
	assert.Equal(len("line 3: oops\n"), n)
	assert.Equal("line 3: oops\n", buff.String())
}
