package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/SscSPs/sismog_console/internal/apperrors"
	"github.com/SscSPs/sismog_console/internal/core/domain"
	"github.com/go-viper/mapstructure/v2"
	"github.com/shopspring/decimal"
)

// Timestamp layouts seen from the data service and the database adapters.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999-07",
	"2006-01-02 15:04:05.999999-07:00",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

var (
	timeType    = reflect.TypeOf(time.Time{})
	decimalType = reflect.TypeOf(decimal.Decimal{})
)

func stringToTimeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != timeType || from.Kind() != reflect.String {
		return data, nil
	}
	raw := reflect.ValueOf(data).String()
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return nil, fmt.Errorf("unrecognised timestamp %q", raw)
}

func toDecimalHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != decimalType {
		return data, nil
	}
	switch v := data.(type) {
	case string:
		return decimal.NewFromString(v)
	case json.Number:
		return decimal.NewFromString(v.String())
	case float64:
		return decimal.NewFromFloat(v), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	}
	return data, nil
}

// decodeInto copies input onto out. Scalars are converted leniently so that
// identifiers arriving as numbers land in string fields and flags arriving
// as "true" land in bools.
func decodeInto(input any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			stringToTimeHook,
			toDecimalHook,
		),
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

// decodeRecord converts one collection row into T.
func decodeRecord[T any](rec domain.Record) (T, error) {
	var out T
	if err := decodeInto(map[string]any(rec), &out); err != nil {
		return out, fmt.Errorf("decode record: %w", err)
	}
	return out, nil
}

// decodeRecords converts fetched rows. Rows without an identifier cannot be
// edited or deleted and are dropped with a warning; a row that fails to
// decode fails the whole fetch.
func decodeRecords[T any](ctx context.Context, collection string, rows []domain.Record) ([]T, error) {
	out := make([]T, 0, len(rows))
	for i, rec := range rows {
		if _, ok := rec.ID(); !ok {
			(&BaseService{Component: collection}).LogWarn(ctx, "Dropping record without identifier",
				slog.String("collection", collection), slog.Int("row", i))
			continue
		}
		item, err := decodeRecord[T](rec)
		if err != nil {
			return nil, apperrors.NewAppError(0, fmt.Sprintf("unexpected %s data from the data service", collection), err)
		}
		out = append(out, item)
	}
	return out, nil
}
