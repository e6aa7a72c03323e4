package usecase

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
)

// Columnas reconocidas del CSV de inventario (Código,Nombre,Modelo,Tipo,Tamaño,Almacén,Estado,Precio,Stock).
// Se comparan sin mayúsculas ni acentos; "valor" y "cantidad" se aceptan como sinónimos.
var csvColumns = map[string]string{
	"codigo":   "code",
	"nombre":   "name",
	"modelo":   "model",
	"tipo":     "type",
	"tamano":   "size",
	"almacen":  "warehouse",
	"estado":   "status",
	"precio":   "value",
	"valor":    "value",
	"stock":    "quantity",
	"cantidad": "quantity",
}

// ErrCSVHeader encabezado sin las columnas obligatorias.
var ErrCSVHeader = fmt.Errorf("%w: encabezado CSV inválido (se requieren Código y Nombre)", domain.ErrInvalidInput)

// ParseInventoryCSV lee el CSV exportado por el cliente y lo convierte en filas de carga masiva.
// Con latin1=true el contenido se decodifica como Windows-1252 (planillas de Excel en español).
// El separador puede ser ',' o ';' y se detecta en la primera línea.
func ParseInventoryCSV(r io.Reader, latin1 bool) ([]dto.BulkProductRow, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.Windows1252.NewDecoder())
	}
	br := bufio.NewReader(r)
	first, err := br.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("leer CSV: %w", err)
	}

	cr := csv.NewReader(br)
	cr.Comma = detectDelimiter(first)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrCSVHeader
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		if field, ok := csvColumns[foldHeader(h)]; ok {
			if _, dup := index[field]; !dup {
				index[field] = i
			}
		}
	}
	if _, ok := index["code"]; !ok {
		return nil, ErrCSVHeader
	}
	if _, ok := index["name"]; !ok {
		return nil, ErrCSVHeader
	}

	var rows []dto.BulkProductRow
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		get := func(field string) string {
			i, ok := index[field]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		if get("code") == "" && get("name") == "" {
			continue // línea en blanco
		}
		rows = append(rows, dto.BulkProductRow{
			Code:      get("code"),
			Name:      get("name"),
			Model:     get("model"),
			Type:      get("type"),
			Size:      get("size"),
			Warehouse: get("warehouse"),
			Status:    get("status"),
			UnitValue: decimalOrZero(get("value")),
			Quantity:  decimalOrZero(get("quantity")),
		})
	}
	return rows, nil
}

// ImportCSV parsea el archivo y lo aplica como una carga masiva.
func (uc *ProductUseCase) ImportCSV(ctx context.Context, r io.Reader, latin1 bool, userID string) (*dto.ImportSummary, error) {
	rows, err := ParseInventoryCSV(r, latin1)
	if err != nil {
		return nil, err
	}
	return uc.BulkImport(ctx, rows, userID)
}

// foldHeader quita BOM, acentos y mayúsculas: "Código" -> "codigo", "Tamaño" -> "tamano".
func foldHeader(h string) string {
	h = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(h), "\ufeff"))
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, h)
	if err != nil {
		out = h
	}
	return strings.ToLower(out)
}

func detectDelimiter(firstLine []byte) rune {
	line := string(firstLine)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	if strings.Count(line, ";") > strings.Count(line, ",") {
		return ';'
	}
	return ','
}

