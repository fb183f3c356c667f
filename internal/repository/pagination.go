package repository

import "gorm.io/gorm"

// 列表查询单页上限，防御未经 handler 归一化的调用方
const maxPageSize = 100

// applyPagination 统一分页：页码从 1 起算，pageSize 超限时收敛到上限。
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil {
		return query
	}
	if pageSize <= 0 {
		return query
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if page < 1 {
		page = 1
	}
	return query.Offset((page - 1) * pageSize).Limit(pageSize)
}
