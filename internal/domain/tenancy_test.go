package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTenancyActiveAt(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 6, 0)

	bounded := Tenancy{DateDebut: start, DateFin: &end}
	assert.False(t, bounded.ActiveAt(start.Add(-time.Hour)))
	assert.True(t, bounded.ActiveAt(start))
	assert.True(t, bounded.ActiveAt(start.AddDate(0, 3, 0)))
	assert.True(t, bounded.ActiveAt(end))
	assert.False(t, bounded.ActiveAt(end.Add(time.Hour)))

	openEnded := Tenancy{DateDebut: start}
	assert.True(t, openEnded.ActiveAt(start.AddDate(10, 0, 0)))
	assert.False(t, openEnded.ActiveAt(start.Add(-time.Hour)))
}

func TestTenancyExpired(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 6, 0)

	bounded := Tenancy{DateDebut: start, DateFin: &end}
	assert.False(t, bounded.Expired(end))
	assert.True(t, bounded.Expired(end.Add(time.Second)))

	openEnded := Tenancy{DateDebut: start}
	assert.False(t, openEnded.Expired(start.AddDate(10, 0, 0)))
}
