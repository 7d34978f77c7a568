package document

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jmespath/go-jmespath"
	"github.com/studiowebux/mqttcmd/internal/types"
)

// BrokerPlaceholder is replaced in a topics query by the selected broker title
const BrokerPlaceholder = "{{broker}}"

const topicsField = "topics"

// Topics returns the topics offered for the selected broker.
//
// Without a query the broker's own "topics" field wins, then the document's
// top-level "topics". A non-empty query is a JMESPath expression evaluated
// against the whole document, e.g.
//
//	brokers[?title=={{broker}}].topics[]
//
// Duplicates are dropped, first occurrence wins.
func Topics(doc types.Document, broker *types.Broker, query string) ([]string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		if broker != nil {
			if topics := stringList(broker.Extra[topicsField]); len(topics) > 0 {
				return topics, nil
			}
		}
		return stringList(doc.Extra[topicsField]), nil
	}

	title := ""
	if broker != nil {
		title = broker.Title
	}
	expression := strings.ReplaceAll(query, BrokerPlaceholder, rawStringLiteral(title))

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}

	var value interface{}
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}

	jp, err := jmespath.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid topics query '%s': %w", query, err)
	}

	result, err := jp.Search(value)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate topics query: %w", err)
	}

	switch v := result.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{v}, nil
	case []interface{}:
		return collectStrings(v), nil
	default:
		return nil, fmt.Errorf("topics query must yield a string or a list, got %T", result)
	}
}

// rawStringLiteral quotes s as a JMESPath raw string literal
func rawStringLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, `'`, `\'`) + "'"
}

func stringList(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var items []interface{}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	return collectStrings(items)
}

func collectStrings(items []interface{}) []string {
	seen := make(map[string]bool, len(items))
	topics := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok || s == "" || seen[s] {
			continue
		}
		seen[s] = true
		topics = append(topics, s)
	}
	return topics
}
