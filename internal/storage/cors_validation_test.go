package storage_test

import (
	"testing"

	"github.com/LepistaBioinformatics/mycelium-sub000/internal/storage"
	"github.com/stretchr/testify/assert"
)

func TestValidateCORSOriginsRejectsWildcard(t *testing.T) {
	err := storage.ValidateCORSOrigins([]string{"*"})
	assert.Error(t, err)
}

func TestValidateCORSOriginsRejectsPlainHTTP(t *testing.T) {
	err := storage.ValidateCORSOrigins([]string{"http://app.example.com"})
	assert.Error(t, err)
}

func TestValidateCORSOriginsAllowsLocalhostHTTP(t *testing.T) {
	err := storage.ValidateCORSOrigins([]string{"http://localhost:3000"})
	assert.NoError(t, err)
}

func TestValidateCORSOriginsAllowsHTTPS(t *testing.T) {
	err := storage.ValidateCORSOrigins([]string{"https://app.example.com"})
	assert.NoError(t, err)
}

func TestValidateCORSOriginsRejectsMalformedEntries(t *testing.T) {
	assert.Error(t, storage.ValidateCORSOrigins([]string{""}))
	assert.Error(t, storage.ValidateCORSOrigins([]string{"https://app.example.com has a space"}))
}
