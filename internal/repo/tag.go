package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/cloneoverflow/backend/internal/models"
)

type TagRepo struct {
	DB *gorm.DB
}

// TagWithCount carries how many questions use the tag, shown in the tag
// search listing.
type TagWithCount struct {
	models.Tag
	Questions int64 `json:"questions"`
}

func (r *TagRepo) Search(ctx context.Context, name string, offset, limit int) ([]TagWithCount, int64, error) {
	q := r.DB.WithContext(ctx).Model(&models.Tag{})
	if name != "" {
		q = q.Where("LOWER(name) LIKE ?", strings.ToLower(name)+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tags []models.Tag
	if err := q.Order("name ASC").Offset(offset).Limit(limit).Find(&tags).Error; err != nil {
		return nil, 0, err
	}

	items := make([]TagWithCount, len(tags))
	for i, tag := range tags {
		var count int64
		err := r.DB.WithContext(ctx).Table("question_tags").
			Where("tag_id = ?", tag.ID).Count(&count).Error
		if err != nil {
			return nil, 0, err
		}
		items[i] = TagWithCount{Tag: tag, Questions: count}
	}
	return items, total, nil
}

// upsertTags resolves tag names to rows, creating the missing ones.
// Shared by question create/update inside their transactions.
func upsertTags(tx *gorm.DB, names []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		var tag models.Tag
		if err := tx.Where("name = ?", name).FirstOrCreate(&tag, models.Tag{Name: name}).Error; err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}
