package utils

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTxRef(t *testing.T) {
	ref := GenerateTxRef("0f8fad5b-d9cb-469f-a165-70867728950e")

	assert.Regexp(t, regexp.MustCompile(`^LODGR-\d{8}-0f8fad5b-[0-9a-f]{10}$`), ref)
	assert.NotEqual(t, ref, GenerateTxRef("0f8fad5b-d9cb-469f-a165-70867728950e"))
	assert.Regexp(t, `^LODGR-\d{8}-7-`, GenerateTxRef("7"))
}

func TestParseHelpers(t *testing.T) {
	assert.Equal(t, 3, ParseInt("3", 1))
	assert.Equal(t, 1, ParseInt("-2", 1))
	assert.Equal(t, 1, ParseInt("abc", 1))

	assert.Nil(t, ParseBoolPtr(""))
	assert.Nil(t, ParseBoolPtr("maybe"))
	require.NotNil(t, ParseBoolPtr("false"))
	assert.False(t, *ParseBoolPtr("false"))

	assert.Nil(t, StringPtr("   "))
	assert.Equal(t, "Bishoftu", *StringPtr(" Bishoftu "))
}

func TestPagination(t *testing.T) {
	assert.Equal(t, 0, CalculateOffset(0, 10))
	assert.Equal(t, 20, CalculateOffset(3, 10))
	assert.Equal(t, 3, CalculateTotalPages(21, 10))
	assert.Equal(t, 0, CalculateTotalPages(0, 10))

	assert.Equal(t, DefaultPerPage, ClampPerPage(0))
	assert.Equal(t, MaxPerPage, ClampPerPage(500))
	assert.Equal(t, 25, ClampPerPage(25))
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("s3cret-pass", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "PORT=9090\nCHAPA_SECRET_KEY=CHASECK_TEST\nCHAPA_TIMEOUT_SECONDS=3\nQUEUE_DRIVER=memory\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	config, err := LoadConfigFile(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", config.App.Port)
	assert.Equal(t, "CHASECK_TEST", config.Chapa.SecretKey)
	assert.Equal(t, 3*time.Second, config.Chapa.Timeout)
	assert.Equal(t, "memory", config.Queue.Driver)
	assert.Equal(t, "https://api.chapa.co/v1", config.Chapa.BaseURL)
	assert.Equal(t, 5, config.Queue.MaxAttempts)
}

func TestLoadConfigFile_Missing(t *testing.T) {
	config, err := LoadConfigFile(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	assert.Equal(t, "8080", config.App.Port)
}

func TestValidateStruct(t *testing.T) {
	type sample struct {
		Email  string `validate:"required,email"`
		Rating int    `validate:"min=1,max=5"`
	}

	errs := ValidateStruct(sample{Email: "nope", Rating: 9})
	assert.Equal(t, "Invalid email format", errs["Email"])
	assert.Equal(t, "Maximum is 5", errs["Rating"])
	assert.Equal(t, "Email: Invalid email format; Rating: Maximum is 5", FormatValidationErrors(errs))

	assert.Nil(t, ValidateStruct(sample{Email: "guest@example.com", Rating: 3}))
}
