package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
)

// ElasticMirror indexes audit entries into monthly Elasticsearch indices.
type ElasticMirror struct {
	es     *elasticsearch.Client
	prefix string
}

func NewElasticMirror(es *elasticsearch.Client, prefix string) *ElasticMirror {
	if prefix == "" {
		prefix = "clinic_audit_"
	}
	return &ElasticMirror{es: es, prefix: prefix}
}

// IndexName returns the index an entry is written to.
func (m *ElasticMirror) IndexName(entry Entry) string {
	return m.prefix + entry.Timestamp.Format("2006.01")
}

func (m *ElasticMirror) Index(ctx context.Context, entry Entry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	res, err := m.es.Index(
		m.IndexName(entry),
		bytes.NewReader(payload),
		m.es.Index.WithContext(ctx),
		m.es.Index.WithDocumentID(entry.ID),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch index: %s", res.Status())
	}
	return nil
}
