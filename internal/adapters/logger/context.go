package logger

import "context"

type fieldsKey struct{}

// WithFields returns a context carrying fields that every log call made with
// it will include. Fields already on ctx are kept unless overridden.
func WithFields(ctx context.Context, fields map[string]interface{}) context.Context {
	merged := make(map[string]interface{}, len(fields))
	for k, v := range contextFields(ctx) {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return context.WithValue(ctx, fieldsKey{}, merged)
}

func contextFields(ctx context.Context) map[string]interface{} {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(fieldsKey{}).(map[string]interface{})
	return fields
}

// mergeFields combines context fields with the call's fields, the latter winning.
func mergeFields(ctx context.Context, fields []map[string]interface{}) map[string]interface{} {
	base := contextFields(ctx)
	if len(fields) == 0 || fields[0] == nil {
		return base
	}
	if len(base) == 0 {
		return fields[0]
	}
	out := make(map[string]interface{}, len(base)+len(fields[0]))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range fields[0] {
		out[k] = v
	}
	return out
}
