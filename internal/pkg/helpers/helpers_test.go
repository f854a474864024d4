package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNilIfBlank(t *testing.T) {
	assert.Nil(t, NilIfBlank(nil))
	blank := "   "
	assert.Nil(t, NilIfBlank(&blank))
	v := "  contact@college.edu "
	got := NilIfBlank(&v)
	if assert.NotNil(t, got) {
		assert.Equal(t, "contact@college.edu", *got)
	}
}

func TestPositiveDuration(t *testing.T) {
	assert.Equal(t, 2*time.Hour, PositiveDuration("2h", time.Minute))
	assert.Equal(t, time.Minute, PositiveDuration("soon", time.Minute))
	assert.Equal(t, time.Minute, PositiveDuration("-5m", time.Minute))
	assert.Equal(t, time.Minute, PositiveDuration("0s", time.Minute))
}

func TestDeref(t *testing.T) {
	assert.Equal(t, "", Deref(nil))
	assert.Equal(t, "x", Deref(StringPtr("x")))
	assert.Nil(t, StringPtr(""))
}
