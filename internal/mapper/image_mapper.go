package mapper

import (
	"ai-imagestudio-be/internal/entity"
	"ai-imagestudio-be/internal/model"
)

type GenerationMapper struct{}

func NewGenerationMapper() *GenerationMapper {
	return &GenerationMapper{}
}

func (m *GenerationMapper) ToEntity(g *model.GenerationHistory) *entity.GenerationRecord {
	if g == nil {
		return nil
	}
	return &entity.GenerationRecord{
		Id:          g.Id,
		UserId:      g.UserId,
		Prompt:      g.Prompt,
		ImageURL:    g.ImageURL,
		AspectRatio: g.AspectRatio,
		Style:       g.Style,
		CreditsUsed: g.CreditsUsed,
		CreatedAt:   g.CreatedAt,
	}
}

// ToModel never carries an embedding; the vector is written by the embedding
// worker directly against the row.
func (m *GenerationMapper) ToModel(g *entity.GenerationRecord) *model.GenerationHistory {
	if g == nil {
		return nil
	}
	return &model.GenerationHistory{
		Id:          g.Id,
		UserId:      g.UserId,
		Prompt:      g.Prompt,
		ImageURL:    g.ImageURL,
		AspectRatio: g.AspectRatio,
		Style:       g.Style,
		CreditsUsed: g.CreditsUsed,
		CreatedAt:   g.CreatedAt,
	}
}

func (m *GenerationMapper) ToEntities(rows []*model.GenerationHistory) []*entity.GenerationRecord {
	entities := make([]*entity.GenerationRecord, len(rows))
	for i, g := range rows {
		entities[i] = m.ToEntity(g)
	}
	return entities
}

type EditMapper struct{}

func NewEditMapper() *EditMapper {
	return &EditMapper{}
}

func (m *EditMapper) ToEntity(e *model.EditHistory) *entity.EditRecord {
	if e == nil {
		return nil
	}
	return &entity.EditRecord{
		Id:          e.Id,
		UserId:      e.UserId,
		OriginalURL: e.OriginalURL,
		EditedURL:   e.EditedURL,
		EditType:    e.EditType,
		Mode:        e.Mode,
		CreditsUsed: e.CreditsUsed,
		CreatedAt:   e.CreatedAt,
	}
}

func (m *EditMapper) ToModel(e *entity.EditRecord) *model.EditHistory {
	if e == nil {
		return nil
	}
	return &model.EditHistory{
		Id:          e.Id,
		UserId:      e.UserId,
		OriginalURL: e.OriginalURL,
		EditedURL:   e.EditedURL,
		EditType:    e.EditType,
		Mode:        e.Mode,
		CreditsUsed: e.CreditsUsed,
		CreatedAt:   e.CreatedAt,
	}
}

func (m *EditMapper) ToEntities(rows []*model.EditHistory) []*entity.EditRecord {
	entities := make([]*entity.EditRecord, len(rows))
	for i, e := range rows {
		entities[i] = m.ToEntity(e)
	}
	return entities
}
