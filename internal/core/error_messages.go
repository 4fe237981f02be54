package core

// # Error Codes Reference
//
// Technical errors are mapped onto user messages with a code that operators
// can quote to support.
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Duplicate key: A record with this identifier already exists
//	        Patterns: "duplicate key"
//	DB002 - Unique constraint: A barcode or SKU is already in use
//	        Patterns: "unique constraint", "violates unique"
//	DB003 - Foreign key: Referenced record does not exist
//	        Patterns: "foreign key constraint", "violates foreign key"
//	DB004 - Connection refused: Unable to connect to database
//	        Patterns: "connection refused"
//	DB005 - Connection reset: Database connection was interrupted
//	        Patterns: "connection reset"
//	DB006 - Timeout: Operation timed out
//	        Patterns: "timeout"
//	DB007 - Deadlock: Database was busy with conflicting operations
//	        Patterns: "deadlock"
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Invalid date: Invalid date format detected
//	         Patterns: "invalid date"
//	VAL002 - Invalid number: Invalid number format detected
//	         Patterns: "invalid number"
//	VAL003 - Required field: Required field is empty
//	         Patterns: "required field"
//	VAL004 - Missing column: Required column is missing from the file
//	         Patterns: "missing required column"
//	VAL005 - Column not found: Expected column not found in the file
//	         Patterns: "column not found"
//	VAL006 - Invalid enum: Value is not in the allowed list
//	         Patterns: "invalid enum", "unsupported format"
//	VAL007 - Validation failed: The file or request has invalid values
//	         Patterns: "validation failed", "invalid request body",
//	         "field validation for"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds the maximum upload size
//	          Patterns: "file too large"
//	FILE002 - Invalid CSV: File is not a valid CSV or workbook
//	          Patterns: "invalid csv", "invalid xlsx"
//	FILE003 - Encoding error: File contains invalid characters
//	          Patterns: "encoding error"
//	FILE004 - No file: No file was selected
//	          Patterns: "no file provided"
//	FILE005 - Empty file: The uploaded file has no data rows
//	          Patterns: "empty file"
//
// # Import Errors (UPL001-UPL099)
//
//	UPL001 - Import cancelled: The import stopped before finishing
//	         Patterns: "import cancelled"
//	UPL002 - System busy: Too many imports in progress
//	         Patterns: "too many imports"
//	UPL003 - Report expired: Import report not found
//	         Patterns: "report not found"
//	UPL004 - Request cancelled: Request was cancelled
//	         Patterns: "context canceled"
//	UPL005 - Request timeout: Request timed out
//	         Patterns: "context deadline exceeded"
//
// # Invoice Errors (INV001-INV099)
//
//	INV001 - No products: No products could be read from the invoice
//	         Patterns: "no products could be extracted"
//	INV002 - Parser unavailable: The invoice text service failed
//	         Patterns: "invoice parser"
//
// # Settings Errors (SET001-SET099)
//
//	SET001 - Invalid setting: A stored setting has an unknown or wrong type
//	         Patterns: "unknown setting type", "setting type mismatch"
//
// # Access (RATE001, AUTH001)
//
//	RATE001 - Rate limited: Too many requests
//	          Patterns: "rate limit"
//	AUTH001 - Unauthorized: Missing or invalid API key
//	          Patterns: "unauthorized", "invalid api key"
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//
// Patterns are matched case-insensitively with strings.Contains. The first
// match wins, so specific patterns come before general ones.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user
// messages. Order matters: the first match wins.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Database Constraint Errors (DB001-DB003)
	// =========================================================================
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "Ya existe un registro con este identificador",
			Action:  "Revise el archivo en busca de códigos de barras o SKU repetidos",
			Code:    "DB001",
		},
	},
	{
		pattern: "unique constraint",
		msg: UserMessage{
			Message: "El código de barras o SKU ya está en uso",
			Action:  "Busque identificadores duplicados en el archivo",
			Code:    "DB002",
		},
	},
	{
		pattern: "violates unique",
		msg: UserMessage{
			Message: "Se encontró un valor duplicado",
			Action:  "Revise los datos en busca de códigos de barras o SKU duplicados",
			Code:    "DB002",
		},
	},
	{
		pattern: "foreign key constraint",
		msg: UserMessage{
			Message: "El registro referenciado no existe",
			Action:  "Verifique que el producto exista antes de agregar variantes o movimientos",
			Code:    "DB003",
		},
	},
	{
		pattern: "violates foreign key",
		msg: UserMessage{
			Message: "El registro referenciado no existe",
			Action:  "Verifique que el producto exista antes de agregar variantes o movimientos",
			Code:    "DB003",
		},
	},

	// =========================================================================
	// Database Connection Errors (DB004-DB007)
	// =========================================================================
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "No se pudo conectar a la base de datos",
			Action:  "Intente de nuevo en unos momentos",
			Code:    "DB004",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Se interrumpió la conexión con la base de datos",
			Action:  "Intente de nuevo",
			Code:    "DB005",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "La operación excedió el tiempo de espera",
			Action:  "Use un archivo más pequeño o intente más tarde",
			Code:    "DB006",
		},
	},
	{
		pattern: "deadlock",
		msg: UserMessage{
			Message: "La base de datos estaba ocupada con operaciones en conflicto",
			Action:  "Intente de nuevo",
			Code:    "DB007",
		},
	},

	// =========================================================================
	// Validation Errors (VAL001-VAL007)
	// =========================================================================
	{
		pattern: "invalid date",
		msg: UserMessage{
			Message: "Formato de fecha inválido",
			Action:  "Use AAAA-MM-DD",
			Code:    "VAL001",
		},
	},
	{
		pattern: "invalid number",
		msg: UserMessage{
			Message: "Formato de número inválido",
			Action:  "Use números decimales simples como 1250.50",
			Code:    "VAL002",
		},
	},
	{
		pattern: "required field",
		msg: UserMessage{
			Message: "Falta un campo obligatorio",
			Action:  "Llene todos los campos obligatorios",
			Code:    "VAL003",
		},
	},
	{
		pattern: "missing required column",
		msg: UserMessage{
			Message: "Falta una columna obligatoria en el archivo",
			Action:  "Descargue la plantilla y compare la fila de encabezados",
			Code:    "VAL004",
		},
	},
	{
		pattern: "column not found",
		msg: UserMessage{
			Message: "No se encontró una columna esperada en el archivo",
			Action:  "Verifique que los encabezados coincidan con la plantilla",
			Code:    "VAL005",
		},
	},
	{
		pattern: "invalid enum",
		msg: UserMessage{
			Message: "El valor no está en la lista permitida",
			Action:  "Revise los valores permitidos para este campo",
			Code:    "VAL006",
		},
	},
	{
		pattern: "unsupported format",
		msg: UserMessage{
			Message: "Formato de archivo no soportado",
			Action:  "Use csv o xlsx",
			Code:    "VAL006",
		},
	},
	{
		pattern: "validation failed",
		msg: UserMessage{
			Message: "El archivo tiene filas inválidas",
			Action:  "Corrija las filas indicadas e importe el archivo de nuevo",
			Code:    "VAL007",
		},
	},
	{
		pattern: "invalid request body",
		msg: UserMessage{
			Message: "La solicitud tiene valores inválidos",
			Action:  "Envíe un cuerpo JSON con los campos documentados",
			Code:    "VAL007",
		},
	},
	{
		pattern: "field validation for",
		msg: UserMessage{
			Message: "La solicitud tiene valores inválidos",
			Action:  "Revise los campos enviados e intente de nuevo",
			Code:    "VAL007",
		},
	},

	// =========================================================================
	// File Errors (FILE001-FILE005)
	// =========================================================================
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "El archivo excede el tamaño máximo permitido",
			Action:  "Divida el archivo en archivos más pequeños",
			Code:    "FILE001",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "El archivo no es un CSV válido",
			Action:  "Guarde el archivo como valores separados por comas",
			Code:    "FILE002",
		},
	},
	{
		pattern: "invalid xlsx",
		msg: UserMessage{
			Message: "El archivo no es un libro de Excel válido",
			Action:  "Guarde el archivo como .xlsx o expórtelo como CSV",
			Code:    "FILE002",
		},
	},
	{
		pattern: "encoding error",
		msg: UserMessage{
			Message: "El archivo contiene caracteres inválidos",
			Action:  "Guarde el archivo con codificación UTF-8",
			Code:    "FILE003",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No se seleccionó ningún archivo",
			Action:  "Seleccione un archivo para subir",
			Code:    "FILE004",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "El archivo no tiene filas de datos",
			Action:  "Agregue al menos una fila de producto debajo del encabezado",
			Code:    "FILE005",
		},
	},

	// =========================================================================
	// Import Errors (UPL001-UPL005)
	// =========================================================================
	{
		pattern: "import cancelled",
		msg: UserMessage{
			Message: "La importación se detuvo antes de terminar",
			Action:  "Revise el reporte e importe el archivo de nuevo",
			Code:    "UPL001",
		},
	},
	{
		pattern: "too many imports",
		msg: UserMessage{
			Message: "El sistema está procesando otras importaciones",
			Action:  "Espere un momento e intente de nuevo",
			Code:    "UPL002",
		},
	},
	{
		pattern: "report not found",
		msg: UserMessage{
			Message: "No se encontró el reporte de importación",
			Action:  "El reporte pudo haber expirado. Importe el archivo de nuevo para obtener uno nuevo",
			Code:    "UPL003",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "La solicitud fue cancelada",
			Action:  "Intente de nuevo",
			Code:    "UPL004",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "La solicitud excedió el tiempo de espera",
			Action:  "Use un archivo más pequeño o revise su conexión",
			Code:    "UPL005",
		},
	},

	// =========================================================================
	// Invoice Errors (INV001-INV002)
	// =========================================================================
	{
		pattern: "no products could be extracted",
		msg: UserMessage{
			Message: "No se pudieron leer productos de la factura",
			Action:  "Verifique que el PDF tenga texto seleccionable o pegue el texto",
			Code:    "INV001",
		},
	},
	{
		pattern: "invoice parser",
		msg: UserMessage{
			Message: "El servicio de lectura de facturas no está disponible",
			Action:  "Intente más tarde o pegue el texto de la factura",
			Code:    "INV002",
		},
	},

	// =========================================================================
	// Settings Errors (SET001)
	// =========================================================================
	{
		pattern: "unknown setting type",
		msg: UserMessage{
			Message: "Una configuración guardada tiene un tipo desconocido",
			Action:  "Corrija la tabla de configuración y recargue",
			Code:    "SET001",
		},
	},
	{
		pattern: "setting type mismatch",
		msg: UserMessage{
			Message: "Una configuración guardada tiene un tipo incorrecto",
			Action:  "Corrija la tabla de configuración y recargue",
			Code:    "SET001",
		},
	},

	// =========================================================================
	// Access (RATE001, AUTH001)
	// =========================================================================
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Demasiadas solicitudes",
			Action:  "Espere un momento antes de intentar de nuevo",
			Code:    "RATE001",
		},
	},
	{
		pattern: "unauthorized",
		msg: UserMessage{
			Message: "Falta la clave de API o es inválida",
			Action:  "Envíe una clave válida en el encabezado X-API-Key",
			Code:    "AUTH001",
		},
	},
	{
		pattern: "invalid api key",
		msg: UserMessage{
			Message: "Falta la clave de API o es inválida",
			Action:  "Envíe una clave válida en el encabezado X-API-Key",
			Code:    "AUTH001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
// Support staff should check application logs for the original technical
// error when users report ERR000.
var defaultMessage = UserMessage{
	Message: "Ocurrió un error inesperado",
	Action:  "Intente de nuevo o contacte a soporte",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// If no pattern matches, the ERR000 fallback is returned.
//
//	msg := MapError(errors.New("duplicate key violation"))
//	// msg.Code == "DB001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Código: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Código: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether an error matches a known pattern rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	msg := MapError(err)
	return msg.Code != defaultMessage.Code
}

// UserError wraps a technical error with a user-friendly message.
// The original error is preserved for logging.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps a technical error to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
