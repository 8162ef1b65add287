package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateHour(t *testing.T) {
	for _, h := range []string{"00:00", "18:30", "23:59"} {
		assert.NoError(t, ValidateHour(h), h)
	}
	for _, h := range []string{"", "24:00", "18:60", "7pm", "18:30:00", "1830"} {
		assert.Error(t, ValidateHour(h), h)
	}
}
