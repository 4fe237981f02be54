package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "duplicate key maps correctly",
			err:         errors.New("ERROR: duplicate key value violates unique constraint \"products_sku_key\""),
			wantCode:    "DB001",
			wantMessage: "Ya existe un registro con este identificador",
		},
		{
			name:        "foreign key maps correctly",
			err:         errors.New("insert or update on table \"product_variants\" violates foreign key constraint"),
			wantCode:    "DB003",
			wantMessage: "El registro referenciado no existe",
		},
		{
			name:        "connection refused maps correctly",
			err:         errors.New("dial tcp 127.0.0.1:5432: connection refused"),
			wantCode:    "DB004",
			wantMessage: "No se pudo conectar a la base de datos",
		},
		{
			name:        "missing column maps correctly",
			err:         fmt.Errorf("missing required column %q", ColName),
			wantCode:    "VAL004",
			wantMessage: "Falta una columna obligatoria en el archivo",
		},
		{
			name:        "row validation maps correctly",
			err:         ValidationErrors([]RowError{{Line: 3, Message: "Stock debe ser un número válido"}}),
			wantCode:    "VAL007",
			wantMessage: "El archivo tiene filas inválidas",
		},
		{
			name:        "empty file maps correctly",
			err:         ErrEmptyFile,
			wantCode:    "FILE005",
			wantMessage: "El archivo no tiene filas de datos",
		},
		{
			name:        "invalid csv maps correctly",
			err:         fmt.Errorf("invalid csv: %w", errors.New("bare \" in non-quoted field")),
			wantCode:    "FILE002",
			wantMessage: "El archivo no es un CSV válido",
		},
		{
			name:        "limiter busy maps correctly",
			err:         ErrTooManyImports,
			wantCode:    "UPL002",
			wantMessage: "El sistema está procesando otras importaciones",
		},
		{
			name:        "expired report maps correctly",
			err:         ErrReportNotFound,
			wantCode:    "UPL003",
			wantMessage: "No se encontró el reporte de importación",
		},
		{
			name:        "cancelled group maps correctly",
			err:         errImportCancelled,
			wantCode:    "UPL001",
			wantMessage: "La importación se detuvo antes de terminar",
		},
		{
			name:        "unsupported export format maps correctly",
			err:         fmt.Errorf("unsupported format %q", "pdf"),
			wantCode:    "VAL006",
			wantMessage: "Formato de archivo no soportado",
		},
		{
			name:        "rate limit maps correctly",
			err:         errors.New("rate limit exceeded"),
			wantCode:    "RATE001",
			wantMessage: "Demasiadas solicitudes",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "Ocurrió un error inesperado",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("DUPLICATE KEY value violates"),
			wantCode:    "DB001",
			wantMessage: "Ya existe un registro con este identificador",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	result := FormatUserError(ErrEmptyFile)

	expected := "El archivo no tiene filas de datos (Código: FILE005). Agregue al menos una fila de producto debajo del encabezado"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil error is not user facing", err: nil, want: false},
		{name: "known error is user facing", err: errors.New("duplicate key"), want: true},
		{name: "unknown error is not user facing", err: errors.New("random internal error xyz"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewUserError(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		if got := NewUserError(nil); got != nil {
			t.Errorf("NewUserError(nil) = %v, want nil", got)
		}
	})

	t.Run("wraps technical error with user message", func(t *testing.T) {
		techErr := fmt.Errorf("create product: %w", errors.New("duplicate key value"))
		userErr := NewUserError(techErr)

		if userErr.Error() != "Ya existe un registro con este identificador" {
			t.Errorf("Error() = %q, want user message", userErr.Error())
		}
		if !errors.Is(userErr, techErr) {
			t.Error("Unwrap() should return original error")
		}
	})
}
