package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is the wire encoding of a raw payload.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// DecodePayload parses a raw network payload into a generic map.
func DecodePayload(data []byte, format Format) (map[string]any, error) {
	var raw any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to decode yaml payload: %w", err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to decode json payload: %w", err)
		}
	}
	m, ok := asMap(raw)
	if !ok {
		return nil, fmt.Errorf("payload root is %T, want an object", raw)
	}
	return m, nil
}

// Adapter maps one backend payload shape onto the canonical model.
type Adapter interface {
	Name() string
	Match(payload map[string]any) bool
	Adapt(payload map[string]any, b *Builder)
}

// Adapters are tried in order; the entity adapter accepts anything.
var Adapters = []Adapter{TransactionAdapter{}, EntityAdapter{}}

// Normalize converts a raw payload into a canonical graph. A payload without
// a node or an edge collection yields an empty graph flagged NoData; it is
// never an error.
func Normalize(payload map[string]any) *Graph {
	return NormalizeCentered(payload, "")
}

// NormalizeCentered is Normalize with an explicit root entity that overrides
// any center named in the payload.
func NormalizeCentered(payload map[string]any, center string) *Graph {
	payload = unwrap(payload)

	b := NewBuilder()
	if payload == nil {
		b.MarkNoData()
		return b.Build()
	}
	for _, a := range Adapters {
		if !a.Match(payload) {
			continue
		}
		b.SetAdapter(a.Name())
		a.Adapt(payload, b)
		break
	}
	if center != "" {
		b.SetCenter(center)
	}
	return b.Build()
}

// unwrap descends into common envelope keys such as {"data": {...}}.
func unwrap(payload map[string]any) map[string]any {
	for depth := 0; payload != nil && depth < 3; depth++ {
		if _, ok := list(payload, nodeKeys...); ok {
			return payload
		}
		var inner map[string]any
		for _, k := range []string{"data", "network", "graph", "result"} {
			if m, ok := asMap(payload[k]); ok {
				inner = m
				break
			}
		}
		if inner == nil {
			return payload
		}
		payload = inner
	}
	return payload
}

var (
	nodeKeys = []string{"nodes", "entities", "accounts"}
	edgeKeys = []string{"edges", "relationships", "transactions", "links"}
)

// collections returns the node and edge lists, or ok=false when either is missing.
func collections(payload map[string]any, nk, ek []string, b *Builder) ([]any, []any, bool) {
	nodes, okN := list(payload, nk...)
	edges, okE := list(payload, ek...)
	if !okN || !okE {
		b.MarkNoData()
		return nil, nil, false
	}
	return nodes, edges, true
}

func centerFrom(payload map[string]any) string {
	f := &fields{m: payload, used: map[string]bool{}}
	return f.str("center", "center_id", "centerId", "center_entity", "center_entity_id", "centerEntityId", "root")
}

func parseEntityType(s string) EntityType {
	switch strings.ToLower(s) {
	case "organization", "organisation", "org", "company", "corporation", "business", "entity", "legal_entity", "trust":
		return EntityOrganization
	}
	return EntityIndividual
}

// EntityAdapter reads entity-network payloads: {nodes|entities, edges|relationships}.
type EntityAdapter struct{}

func (EntityAdapter) Name() string { return "entity-network" }

func (EntityAdapter) Match(map[string]any) bool { return true }

func (EntityAdapter) Adapt(payload map[string]any, b *Builder) {
	nodes, edges, ok := collections(payload, []string{"nodes", "entities"}, []string{"edges", "relationships", "links"}, b)
	if !ok {
		return
	}
	b.SetCenter(centerFrom(payload))

	for _, raw := range nodes {
		f, ok := newFields(raw)
		if !ok {
			b.diagnostics.MissingIDs++
			continue
		}
		n := readBaseNode(f, "id", "entity_id", "entityId")
		n.Attributes = f.rest()
		b.AddNode(n)
	}

	for _, raw := range edges {
		f, ok := newFields(raw)
		if !ok {
			b.diagnostics.DroppedEdges++
			continue
		}
		r := readBaseRelationship(f)
		if c, ok := f.num("confidence", "confidence_score", "confidenceScore"); ok {
			r.Confidence = c
		} else {
			r.Confidence = 1
		}
		r.RiskWeight, _ = f.num("risk_weight", "riskWeight", "risk")
		b.AddRelationship(r)
	}
}

// TransactionAdapter reads transaction-network payloads: accounts and their
// aggregated transfers, under either canonical or backend-specific keys.
type TransactionAdapter struct{}

func (TransactionAdapter) Name() string { return "transaction-network" }

func (TransactionAdapter) Match(payload map[string]any) bool {
	if _, ok := list(payload, "accounts", "transactions"); ok {
		return true
	}
	f := &fields{m: payload, used: map[string]bool{}}
	if t := strings.ToLower(f.str("network_type", "networkType", "type")); strings.HasPrefix(t, "transaction") {
		return true
	}
	edges, _ := list(payload, edgeKeys...)
	if len(edges) > 0 {
		if m, ok := asMap(edges[0]); ok {
			for _, k := range []string{"total_amount", "totalAmount", "amount", "transaction_count", "transactionCount"} {
				if _, has := m[k]; has {
					return true
				}
			}
		}
	}
	return false
}

func (TransactionAdapter) Adapt(payload map[string]any, b *Builder) {
	nodes, edges, ok := collections(payload, []string{"accounts", "nodes"}, []string{"transactions", "edges", "links"}, b)
	if !ok {
		return
	}
	b.SetCenter(centerFrom(payload))

	for _, raw := range nodes {
		f, ok := newFields(raw)
		if !ok {
			b.diagnostics.MissingIDs++
			continue
		}
		n := readBaseNode(f, "id", "account_id", "accountId", "entity_id")
		sent, hasSent := f.num("total_sent", "totalSent", "sent")
		recv, hasRecv := f.num("total_received", "totalReceived", "received")
		count := f.integer("transaction_count", "transactionCount", "tx_count")
		if hasSent || hasRecv || count > 0 {
			n.Volume = &VolumeMetrics{TotalSent: sent, TotalReceived: recv, TransactionCount: count}
		}
		n.Attributes = f.rest()
		b.AddNode(n)
	}

	for _, raw := range edges {
		f, ok := newFields(raw)
		if !ok {
			b.diagnostics.DroppedEdges++
			continue
		}
		r := readBaseRelationship(f)
		agg := &TransactionAggregate{}
		agg.TotalAmount, _ = f.num("total_amount", "totalAmount", "amount")
		agg.TransactionCount = f.integer("transaction_count", "transactionCount", "count")
		if agg.TransactionCount == 0 {
			agg.TransactionCount = 1
		}
		if avg, ok := f.num("avg_amount", "avgAmount", "average_amount"); ok {
			agg.AvgAmount = avg
		} else {
			agg.AvgAmount = agg.TotalAmount / float64(agg.TransactionCount)
		}
		agg.PrimaryType = f.str("primary_type", "primaryType", "transaction_type", "transactionType")
		agg.LatestTimestamp = f.timestamp("latest_timestamp", "latestTimestamp", "timestamp", "date")
		agg.AvgRiskScore, _ = f.num("avg_risk_score", "avgRiskScore", "risk_score", "riskScore")
		if r.Type == "" {
			r.Type = agg.PrimaryType
		}
		if r.Type == "" {
			r.Type = "transfer"
		}
		if c, ok := f.num("confidence"); ok {
			r.Confidence = c
		} else {
			r.Confidence = 1
		}
		if rw, ok := f.num("risk_weight", "riskWeight"); ok {
			r.RiskWeight = rw
		} else {
			r.RiskWeight = agg.AvgRiskScore / 100
		}
		r.Aggregate = agg
		b.AddRelationship(r)
	}
}

func readBaseNode(f *fields, idKeys ...string) Node {
	n := Node{
		ID:         f.str(idKeys...),
		Label:      f.str("label", "name", "display_name", "displayName", "full_name", "account_name", "holder"),
		EntityType: parseEntityType(f.str("entity_type", "entityType", "type", "holder_type", "kind")),
		IsCenter:   f.boolean("is_center", "isCenter", "center"),
	}
	n.RiskScore, _ = f.num("risk_score", "riskScore", "risk")
	n.Centrality, _ = f.num("centrality", "degree_centrality", "centrality_score")
	n.Betweenness, _ = f.num("betweenness", "betweenness_centrality")
	n.Closeness, _ = f.num("closeness", "closeness_centrality")
	n.ConnectionCount = f.integer("connection_count", "connectionCount", "connections")
	return n
}

func readBaseRelationship(f *fields) Relationship {
	return Relationship{
		ID:            f.str("id", "relationship_id", "relationshipId", "transaction_id", "edge_id"),
		Source:        f.str("source", "source_id", "sourceId", "from", "from_account", "sender"),
		Target:        f.str("target", "target_id", "targetId", "to", "to_account", "receiver"),
		Type:          f.str("relationship_type", "relationshipType", "type", "label"),
		Bidirectional: f.boolean("bidirectional", "is_bidirectional", "isBidirectional"),
	}
}
