package brew

import (
	"context"

	"github.com/sirupsen/logrus"
)

// store is the persistence surface the service needs; *Repository satisfies it.
type store interface {
	Recipes(ctx context.Context) ([]Recipe, error)
	RecipeByName(ctx context.Context, name string) (*Recipe, error)
	Brew(ctx context.Context, userID, guildID string, recipe *Recipe) (*Result, error)
}

// Service runs the brewing cauldron.
type Service struct {
	store store
	log   *logrus.Logger
}

func NewService(store store, log *logrus.Logger) *Service {
	return &Service{store: store, log: log}
}

// Recipes lists everything that can be brewed.
func (s *Service) Recipes(ctx context.Context) ([]Recipe, error) {
	return s.store.Recipes(ctx)
}

// Brew crafts one recipe by name. All-or-nothing: either every ingredient is
// consumed and the output granted, or a ShortfallError reports every gap.
func (s *Service) Brew(ctx context.Context, userID, guildID, recipeName string) (*Result, error) {
	recipe, err := s.store.RecipeByName(ctx, recipeName)
	if err != nil {
		return nil, err
	}

	res, err := s.store.Brew(ctx, userID, guildID, recipe)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"user":   userID,
		"guild":  guildID,
		"recipe": recipe.Name,
	}).Info("brew finished")
	return res, nil
}
