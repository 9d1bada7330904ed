package storage

import (
	"fmt"
	"regexp"

	"cvedex/search"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// referenceFields hold ObjectIDs in MongoDB but travel as hex strings
// everywhere else.
var referenceFields = map[string]bool{
	search.FieldID:              true,
	search.FieldVendorRef:       true,
	search.FieldAffectedVendor:  true,
	search.FieldAffectedProduct: true,
}

// translateFilter converts a predicate into a MongoDB query document. String
// operands are escaped before being embedded in a regex.
func translateFilter(node *search.ASTNode) (bson.M, error) {
	if node == nil {
		return bson.M{}, nil
	}
	if err := node.Validate(); err != nil {
		return nil, fmt.Errorf("invalid filter: %w", err)
	}
	return translateNode(node), nil
}

func translateNode(node *search.ASTNode) bson.M {
	if node.Type == search.NodeLogical {
		parts := make(bson.A, 0, len(node.Children))
		for _, c := range node.Children {
			parts = append(parts, translateNode(c))
		}
		if node.Logic == search.LogicOr {
			return bson.M{"$or": parts}
		}
		return bson.M{"$and": parts}
	}
	return translateCondition(node)
}

func translateCondition(node *search.ASTNode) bson.M {
	field := node.Field
	switch node.Operator {
	case search.OpContains:
		return bson.M{field: primitive.Regex{Pattern: regexp.QuoteMeta(fmt.Sprint(node.Value)), Options: "i"}}
	case search.OpStartsWith:
		return bson.M{field: primitive.Regex{Pattern: "^" + regexp.QuoteMeta(fmt.Sprint(node.Value)), Options: "i"}}
	case search.OpEquals:
		return bson.M{field: referenceValue(field, node.Value)}
	case search.OpIn:
		values := bson.A{}
		if list, ok := node.Value.([]string); ok {
			for _, v := range list {
				values = append(values, referenceValue(field, v))
			}
		}
		return bson.M{field: bson.M{"$in": values}}
	case search.OpExists:
		if want, ok := node.Value.(bool); ok && !want {
			return bson.M{field: nil}
		}
		return bson.M{field: bson.M{"$ne": nil}}
	default:
		return bson.M{field: bson.M{"$" + node.Operator: node.Value}}
	}
}

// referenceValue converts a hex id into an ObjectID for reference fields.
// Malformed ids stay strings so they match nothing.
func referenceValue(field string, v interface{}) interface{} {
	if !referenceFields[field] {
		return v
	}
	s, ok := v.(string)
	if !ok {
		return v
	}
	if oid, err := primitive.ObjectIDFromHex(s); err == nil {
		return oid
	}
	return s
}

// translateSort builds a sort document preserving field order.
func translateSort(fields []SortField) bson.D {
	if len(fields) == 0 {
		return nil
	}
	d := make(bson.D, 0, len(fields))
	for _, f := range fields {
		dir := 1
		if f.Desc {
			dir = -1
		}
		d = append(d, bson.E{Key: f.Field, Value: dir})
	}
	return d
}

// translateProjection builds an inclusion projection.
func translateProjection(fields []string) bson.M {
	if len(fields) == 0 {
		return nil
	}
	p := bson.M{}
	for _, f := range fields {
		p[f] = 1
	}
	return p
}

// bucketPipeline groups dated records by the period's calendar key and
// computes count and mean score. $avg skips missing and null scores and
// yields null for a bucket without any.
func bucketPipeline(filter bson.M, period search.Period) mongoPipeline {
	dated := bson.M{search.FieldPublishedDate: bson.M{"$ne": nil}}
	match := dated
	if len(filter) > 0 {
		match = bson.M{"$and": bson.A{filter, dated}}
	}

	var key bson.D
	switch period {
	case search.PeriodDay:
		key = bson.D{
			{Key: "year", Value: bson.M{"$year": "$publishedDate"}},
			{Key: "month", Value: bson.M{"$month": "$publishedDate"}},
			{Key: "day", Value: bson.M{"$dayOfMonth": "$publishedDate"}},
		}
	case search.PeriodWeek:
		key = bson.D{
			{Key: "year", Value: bson.M{"$isoWeekYear": "$publishedDate"}},
			{Key: "week", Value: bson.M{"$isoWeek": "$publishedDate"}},
		}
	default:
		key = bson.D{
			{Key: "year", Value: bson.M{"$year": "$publishedDate"}},
			{Key: "month", Value: bson.M{"$month": "$publishedDate"}},
		}
	}

	return mongoPipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: key},
			{Key: "count", Value: bson.M{"$sum": 1}},
			{Key: "avgScore", Value: bson.M{"$avg": "$cvssScore"}},
		}}},
	}
}

type mongoPipeline = []bson.D
