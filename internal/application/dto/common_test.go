package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/comerzia/backoffice-api/internal/application/dto"
)

func TestTotalPages(t *testing.T) {
	cases := []struct {
		name     string
		total    int
		pageSize int
		want     int
	}{
		{"vacío", 0, 10, 0},
		{"exacto", 20, 10, 2},
		{"con resto", 23, 10, 3},
		{"una sola página", 5, 10, 1},
		{"página de uno", 3, 1, 3},
		{"pageSize inválido", 23, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, dto.TotalPages(tc.total, tc.pageSize))
		})
	}
}

func TestPageRequest_DefaultsYOffset(t *testing.T) {
	var p dto.PageRequest
	p.DefaultPage()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PageSize)
	assert.Equal(t, 0, p.Offset())

	p = dto.PageRequest{Page: 3, PageSize: 10}
	p.DefaultPage()
	assert.Equal(t, 20, p.Offset())

	// tope superior del tamaño de página
	p = dto.PageRequest{Page: 1, PageSize: 9999}
	p.DefaultPage()
	assert.Equal(t, 100, p.PageSize)
}
