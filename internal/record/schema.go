package record

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// DecodeError reports a stored value that could not be turned back into a
// record.
type DecodeError struct {
	Key string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Key, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Decode validates raw against the JSON Schema for T's kind and unmarshals it.
func Decode[T Record](key string, raw []byte) (T, error) {
	var out T
	kind := out.RecordKind()

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return out, &DecodeError{Key: key, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	compiled, err := compiledSchema(kind)
	if err != nil {
		return out, &DecodeError{Key: key, Err: err}
	}
	if err := compiled.Validate(parsed); err != nil {
		return out, &DecodeError{Key: key, Err: fmt.Errorf("schema validation failed: %w", err)}
	}

	if err := json.Unmarshal(raw, &out); err != nil {
		return out, &DecodeError{Key: key, Err: err}
	}
	return out, nil
}

var (
	schemaMu    sync.Mutex
	schemaCache = map[Kind]*jsonschema.Schema{}
)

func compiledSchema(kind Kind) (*jsonschema.Schema, error) {
	schemaMu.Lock()
	defer schemaMu.Unlock()

	if s, ok := schemaCache[kind]; ok {
		return s, nil
	}

	def, ok := definitions()[kind]
	if !ok {
		return nil, fmt.Errorf("no schema for kind %q", kind)
	}

	// The compiler wants a plain decoded JSON value.
	defBytes, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("marshal schema %q: %w", kind, err)
	}
	var doc any
	if err := json.Unmarshal(defBytes, &doc); err != nil {
		return nil, fmt.Errorf("parse schema %q: %w", kind, err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://skillora/%s.json", kind)
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add schema %q: %w", kind, err)
	}
	s, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %q: %w", kind, err)
	}
	schemaCache[kind] = s
	return s, nil
}

func obj(required []string, props map[string]any) map[string]any {
	return map[string]any{
		"type":       "object",
		"required":   required,
		"properties": props,
	}
}

var (
	str       = map[string]any{"type": "string"}
	nonEmpty  = map[string]any{"type": "string", "minLength": 1}
	integer   = map[string]any{"type": "integer"}
	count     = map[string]any{"type": "integer", "minimum": 0}
	boolean   = map[string]any{"type": "boolean"}
	timestamp = map[string]any{"type": "string", "minLength": 1}
	grade     = map[string]any{"type": "integer", "minimum": 1, "maximum": 12}
	subject   = map[string]any{"enum": []any{string(SubjectMath), string(SubjectReading)}}
	strList   = map[string]any{"type": []any{"array", "null"}, "items": str}
)

func listOf(item map[string]any) map[string]any {
	return map[string]any{"type": []any{"array", "null"}, "items": item}
}

func definitions() map[Kind]map[string]any {
	frustration := map[string]any{
		"type":     []any{"object", "null"},
		"required": []any{"type", "signals"},
		"properties": map[string]any{
			"type":    map[string]any{"enum": []any{"explicit_frustration", "disengagement"}},
			"signals": strList,
		},
	}

	exchange := obj(
		[]string{"id", "timestamp", "studentMessage", "tutorResponse", "outcome"},
		map[string]any{
			"id":                        nonEmpty,
			"timestamp":                 timestamp,
			"studentMessage":            str,
			"tutorResponse":             str,
			"timeToRespondMs":           integer,
			"studentThinkMs":            integer,
			"outcome":                   map[string]any{"enum": []any{"correct", "wrong", "neutral"}},
			"frustration":               frustration,
			"questionText":              str,
			"attemptNumber":             count,
			"hintsUsed":                 count,
			"isBreakthrough":            boolean,
			"breakthroughAfterAttempts": count,
		},
	)

	breakthrough := obj(
		[]string{"id", "sessionId", "timestamp", "wrongAttempts", "breakingExchange"},
		map[string]any{
			"id":            nonEmpty,
			"sessionId":     nonEmpty,
			"grade":         grade,
			"subject":       subject,
			"topic":         str,
			"timestamp":     timestamp,
			"wrongAttempts": map[string]any{"type": "integer", "minimum": 2},
			"questionText":  str,
			"breakingExchange": obj(
				[]string{"studentMessage", "tutorResponse"},
				map[string]any{"studentMessage": str, "tutorResponse": str},
			),
			"previousExchanges": listOf(exchange),
		},
	)

	misconception := obj(
		[]string{"id", "sessionId", "timestamp", "studentThinking"},
		map[string]any{
			"id":               nonEmpty,
			"sessionId":        nonEmpty,
			"grade":            grade,
			"subject":          subject,
			"topic":            str,
			"timestamp":        timestamp,
			"wrongAnswer":      str,
			"studentThinking":  str,
			"tutorExplanation": str,
		},
	)

	frustrationSignal := obj(
		[]string{"id", "sessionId", "timestamp", "type", "studentMessage"},
		map[string]any{
			"id":             nonEmpty,
			"sessionId":      nonEmpty,
			"grade":          grade,
			"topic":          str,
			"timestamp":      timestamp,
			"type":           map[string]any{"enum": []any{"explicit_frustration", "disengagement"}},
			"signals":        strList,
			"studentMessage": str,
			"priorContext":   strList,
		},
	)

	session := obj(
		[]string{"id", "grade", "subject", "startTime"},
		map[string]any{
			"id":                 nonEmpty,
			"studentId":          str,
			"studentName":        str,
			"grade":              grade,
			"subject":            subject,
			"topic":              str,
			"startTime":          timestamp,
			"endTime":            timestamp,
			"durationMs":         count,
			"totalExchanges":     count,
			"correctAnswers":     count,
			"wrongAnswers":       count,
			"breakthroughCount":  count,
			"frustrationCount":   count,
			"exchanges":          listOf(exchange),
			"breakthroughs":      listOf(breakthrough),
			"misconceptions":     listOf(misconception),
			"frustrationSignals": listOf(frustrationSignal),
		},
	)

	llmRequest := obj(
		[]string{"id", "timestamp", "model"},
		map[string]any{
			"id":           nonEmpty,
			"timestamp":    timestamp,
			"provider":     str,
			"model":        str,
			"purpose":      str,
			"sessionId":    str,
			"inputTokens":  count,
			"outputTokens": count,
			"latencyMs":    integer,
			"success":      boolean,
			"errorMessage": str,
			"requestBody":  str,
			"responseBody": str,
		},
	)

	return map[Kind]map[string]any{
		KindSession:       session,
		KindBreakthrough:  breakthrough,
		KindMisconception: misconception,
		KindFrustration:   frustrationSignal,
		KindLLMRequest:    llmRequest,
	}
}
