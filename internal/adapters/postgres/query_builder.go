package postgres_adapter

import (
	"fmt"
	"strings"

	"saved-search-service/internal/core/port"
)

type queryBuilder struct {
	conditions []string
	args       []interface{}
	argId      int
}

func newQueryBuilder(baseConditions ...string) *queryBuilder {
	return &queryBuilder{
		argId:      1,
		conditions: baseConditions,
		args:       make([]interface{}, 0),
	}
}

// addCondition подставляет имя поля и номер следующего аргумента в шаблон условия.
func (qb *queryBuilder) addCondition(condition string, fieldName string, arg interface{}) {
	qb.conditions = append(qb.conditions, fmt.Sprintf(condition, fieldName, qb.argId))
	qb.args = append(qb.args, arg)
	qb.argId++
}

func (qb *queryBuilder) AddFloatFilter(fieldName string, min *float64, max *float64) {
	if min != nil {
		qb.addCondition("%s >= $%d", fieldName, *min)
	}
	if max != nil {
		qb.addCondition("%s <= $%d", fieldName, *max)
	}
}

// AddGeohashFilter оставляет объявления, чей geohash начинается с одной из ячеек.
// Объявления без geohash не отсекаются: их проверит точный предикат.
func (qb *queryBuilder) AddGeohashFilter(fieldName string, cells []string) {
	if len(cells) == 0 {
		return
	}
	precision := len(cells[0])
	qb.conditions = append(qb.conditions, fmt.Sprintf(
		"(%[1]s IS NULL OR substr(%[1]s, 1, %[2]d) = ANY($%[3]d))", fieldName, precision, qb.argId))
	qb.args = append(qb.args, cells)
	qb.argId++
}

func (qb *queryBuilder) build() (string, []interface{}) {
	whereClause := ""
	if len(qb.conditions) > 0 {
		whereClause = "WHERE " + strings.Join(qb.conditions, " AND ")
	}
	return whereClause, qb.args
}

// applyCandidateFilter строит WHERE для грубого отбора кандидатов.
func applyCandidateFilter(filter port.PostCandidateFilter) (string, []interface{}) {
	qb := newQueryBuilder(
		"p.status = 'Active'",
		"p.latitude IS NOT NULL",
		"p.longitude IS NOT NULL",
	)

	qb.addCondition("(%s IS NULL OR p.expiry_date > $%d)", "p.expiry_date", filter.Now)
	if filter.TransactionType != "" {
		qb.addCondition("%s = $%d", "p.transaction_type", string(filter.TransactionType))
	}
	qb.AddFloatFilter("p.price", filter.MinPrice, filter.MaxPrice)
	qb.AddGeohashFilter("p.geohash", filter.GeohashCells)

	return qb.build()
}
