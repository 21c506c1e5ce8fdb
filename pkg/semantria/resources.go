package semantria

import (
	"context"

	"github.com/semantria/semantria-go/pkg/semantria/models"
)

// GetConfigurations lists the account's configurations.
func (s *Session) GetConfigurations(ctx context.Context) (Result[[]models.Configuration], error) {
	return List[models.Configuration](ctx, s, KindConfiguration, "")
}

func (s *Session) AddConfigurations(ctx context.Context, items []models.Configuration) (Result[[]models.Configuration], error) {
	return Add(ctx, s, KindConfiguration, items, "")
}

func (s *Session) UpdateConfigurations(ctx context.Context, items []models.Configuration) (Result[[]models.Configuration], error) {
	return Update(ctx, s, KindConfiguration, items, "")
}

func (s *Session) RemoveConfigurations(ctx context.Context, ids []string) (int, error) {
	return Delete(ctx, s, KindConfiguration, ids, "")
}

// CloneConfiguration creates a configuration named name that copies the
// settings of the configuration templateID.
func (s *Session) CloneConfiguration(ctx context.Context, name, templateID string) (Result[[]models.Configuration], error) {
	if name == "" || templateID == "" {
		return Result[[]models.Configuration]{}, ErrInvalidArgument.Msg("name and template are required")
	}
	return s.AddConfigurations(ctx, []models.Configuration{{Name: name, Template: templateID}})
}

func (s *Session) GetCategories(ctx context.Context, configID string) (Result[[]models.Category], error) {
	return List[models.Category](ctx, s, KindCategory, configID)
}

func (s *Session) AddCategories(ctx context.Context, items []models.Category, configID string) (Result[[]models.Category], error) {
	return Add(ctx, s, KindCategory, items, configID)
}

func (s *Session) UpdateCategories(ctx context.Context, items []models.Category, configID string) (Result[[]models.Category], error) {
	return Update(ctx, s, KindCategory, items, configID)
}

func (s *Session) RemoveCategories(ctx context.Context, ids []string, configID string) (int, error) {
	return Delete(ctx, s, KindCategory, ids, configID)
}

func (s *Session) GetBlacklist(ctx context.Context, configID string) (Result[[]models.BlacklistItem], error) {
	return List[models.BlacklistItem](ctx, s, KindBlacklist, configID)
}

func (s *Session) AddBlacklist(ctx context.Context, items []models.BlacklistItem, configID string) (Result[[]models.BlacklistItem], error) {
	return Add(ctx, s, KindBlacklist, items, configID)
}

func (s *Session) UpdateBlacklist(ctx context.Context, items []models.BlacklistItem, configID string) (Result[[]models.BlacklistItem], error) {
	return Update(ctx, s, KindBlacklist, items, configID)
}

func (s *Session) RemoveBlacklist(ctx context.Context, ids []string, configID string) (int, error) {
	return Delete(ctx, s, KindBlacklist, ids, configID)
}

func (s *Session) GetQueries(ctx context.Context, configID string) (Result[[]models.Query], error) {
	return List[models.Query](ctx, s, KindQuery, configID)
}

func (s *Session) AddQueries(ctx context.Context, items []models.Query, configID string) (Result[[]models.Query], error) {
	return Add(ctx, s, KindQuery, items, configID)
}

func (s *Session) UpdateQueries(ctx context.Context, items []models.Query, configID string) (Result[[]models.Query], error) {
	return Update(ctx, s, KindQuery, items, configID)
}

func (s *Session) RemoveQueries(ctx context.Context, ids []string, configID string) (int, error) {
	return Delete(ctx, s, KindQuery, ids, configID)
}

func (s *Session) GetEntities(ctx context.Context, configID string) (Result[[]models.UserEntity], error) {
	return List[models.UserEntity](ctx, s, KindEntity, configID)
}

func (s *Session) AddEntities(ctx context.Context, items []models.UserEntity, configID string) (Result[[]models.UserEntity], error) {
	return Add(ctx, s, KindEntity, items, configID)
}

func (s *Session) UpdateEntities(ctx context.Context, items []models.UserEntity, configID string) (Result[[]models.UserEntity], error) {
	return Update(ctx, s, KindEntity, items, configID)
}

func (s *Session) RemoveEntities(ctx context.Context, ids []string, configID string) (int, error) {
	return Delete(ctx, s, KindEntity, ids, configID)
}

func (s *Session) GetSentimentPhrases(ctx context.Context, configID string) (Result[[]models.SentimentPhrase], error) {
	return List[models.SentimentPhrase](ctx, s, KindSentimentPhrase, configID)
}

func (s *Session) AddSentimentPhrases(ctx context.Context, items []models.SentimentPhrase, configID string) (Result[[]models.SentimentPhrase], error) {
	return Add(ctx, s, KindSentimentPhrase, items, configID)
}

func (s *Session) UpdateSentimentPhrases(ctx context.Context, items []models.SentimentPhrase, configID string) (Result[[]models.SentimentPhrase], error) {
	return Update(ctx, s, KindSentimentPhrase, items, configID)
}

func (s *Session) RemoveSentimentPhrases(ctx context.Context, ids []string, configID string) (int, error) {
	return Delete(ctx, s, KindSentimentPhrase, ids, configID)
}

func (s *Session) GetTaxonomy(ctx context.Context, configID string) (Result[[]models.TaxonomyNode], error) {
	return List[models.TaxonomyNode](ctx, s, KindTaxonomy, configID)
}

func (s *Session) AddTaxonomy(ctx context.Context, items []models.TaxonomyNode, configID string) (Result[[]models.TaxonomyNode], error) {
	return Add(ctx, s, KindTaxonomy, items, configID)
}

func (s *Session) UpdateTaxonomy(ctx context.Context, items []models.TaxonomyNode, configID string) (Result[[]models.TaxonomyNode], error) {
	return Update(ctx, s, KindTaxonomy, items, configID)
}

func (s *Session) RemoveTaxonomy(ctx context.Context, ids []string, configID string) (int, error) {
	return Delete(ctx, s, KindTaxonomy, ids, configID)
}
