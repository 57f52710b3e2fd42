package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/foodgram-backend/internal/data/repos"
	types "github.com/yungbote/foodgram-backend/internal/domain"
	domainagg "github.com/yungbote/foodgram-backend/internal/domain/aggregates"
	"github.com/yungbote/foodgram-backend/internal/platform/ctxutil"
	"github.com/yungbote/foodgram-backend/internal/platform/dbctx"
	"github.com/yungbote/foodgram-backend/internal/platform/imaging"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
	"github.com/yungbote/foodgram-backend/internal/platform/objectstore"
	"github.com/yungbote/foodgram-backend/internal/platform/shortlink"
)

// RecipeWriteInput is the body of recipe create and update requests.
type RecipeWriteInput struct {
	Ingredients []types.LineItemInput `json:"ingredients"`
	Image       *string               `json:"image"`
	Name        *string               `json:"name"`
	Text        *string               `json:"text"`
	CookingTime *int                  `json:"cooking_time"`
}

type RecipeQuery struct {
	AuthorID      int64
	FavoritedOnly bool
	InCartOnly    bool
}

type RecipeService interface {
	Create(ctx context.Context, in RecipeWriteInput) (*RecipeView, error)
	Update(ctx context.Context, recipeID int64, in RecipeWriteInput) (*RecipeView, error)
	Delete(ctx context.Context, recipeID int64) error
	Get(ctx context.Context, recipeID int64) (*RecipeView, error)
	List(ctx context.Context, q RecipeQuery, offset, limit int) ([]*RecipeView, int64, error)
	ShortCode(ctx context.Context, recipeID int64) (string, error)
	ResolveShortCode(ctx context.Context, code string) (int64, error)
	ShoppingList(ctx context.Context) (string, error)
}

type recipeService struct {
	log            *logger.Logger
	recipeRepo     repos.RecipeRepo
	lineRepo       repos.RecipeIngredientRepo
	membershipRepo repos.MembershipRepo
	recipeAgg      domainagg.RecipeAggregate
	assets         assetStore
	views          viewLoader
}

func NewRecipeService(
	log *logger.Logger,
	userRepo repos.UserRepo,
	recipeRepo repos.RecipeRepo,
	lineRepo repos.RecipeIngredientRepo,
	membershipRepo repos.MembershipRepo,
	recipeAgg domainagg.RecipeAggregate,
	bucket objectstore.BucketService,
) RecipeService {
	serviceLog := log.With("service", "RecipeService")
	return &recipeService{
		log:            serviceLog,
		recipeRepo:     recipeRepo,
		lineRepo:       lineRepo,
		membershipRepo: membershipRepo,
		recipeAgg:      recipeAgg,
		assets:         assetStore{log: serviceLog, bucket: bucket},
		views: viewLoader{
			users:       userRepo,
			recipes:     recipeRepo,
			lines:       lineRepo,
			memberships: membershipRepo,
		},
	}
}

func requesterFrom(ctx context.Context) domainagg.Requester {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return domainagg.Requester{}
	}
	return domainagg.Requester{UserID: rd.UserID, IsStaff: rd.IsStaff}
}

// storeImage decodes, resizes and uploads a recipe photo.
func (rs *recipeService) storeImage(ctx context.Context, op, dataURL string) (*domainagg.RecipeImage, error) {
	payload, err := decodeImageField(op, "image", dataURL)
	if err != nil {
		return nil, err
	}
	photo, err := imaging.RecipePhoto(payload, imaging.RecipeMaxWidth)
	if err != nil {
		return nil, internalErr(op, fmt.Errorf("prepare photo: %w", err))
	}
	key := fmt.Sprintf("recipes/%s.%s", uuid.NewString(), photo.Ext())
	url, err := rs.assets.upload(ctx, op, objectstore.BucketCategoryRecipe, key, photo)
	if err != nil {
		return nil, err
	}
	return &domainagg.RecipeImage{BucketKey: key, URL: url}, nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func (rs *recipeService) Create(ctx context.Context, in RecipeWriteInput) (*RecipeView, error) {
	const op = "Recipe.Create"
	author, err := requireViewer(ctx, op)
	if err != nil {
		return nil, err
	}
	if in.Image == nil || strings.TrimSpace(*in.Image) == "" {
		return nil, validationErr(op, "image: this field is required")
	}
	img, err := rs.storeImage(ctx, op, *in.Image)
	if err != nil {
		return nil, err
	}
	recipe, err := rs.recipeAgg.Create(ctx, domainagg.CreateRecipeInput{
		Author:      domainagg.Requester{UserID: author.UserID, IsStaff: author.IsStaff},
		Name:        deref(in.Name),
		Image:       img,
		Text:        deref(in.Text),
		CookingTime: deref(in.CookingTime),
		LineItems:   in.Ingredients,
	})
	if err != nil {
		rs.assets.discard(ctx, objectstore.BucketCategoryRecipe, img.BucketKey)
		return nil, err
	}
	rs.log.Info("recipe created", "recipe_id", recipe.ID, "user_id", author.UserID)
	return rs.present(ctx, op, recipe)
}

func (rs *recipeService) Update(ctx context.Context, recipeID int64, in RecipeWriteInput) (*RecipeView, error) {
	const op = "Recipe.Update"
	requester, err := requireViewer(ctx, op)
	if err != nil {
		return nil, err
	}
	who := domainagg.Requester{UserID: requester.UserID, IsStaff: requester.IsStaff}
	var img *domainagg.RecipeImage
	if in.Image != nil {
		if err := rs.recipeAgg.AuthorizeReplace(ctx, recipeID, who); err != nil {
			return nil, err
		}
		if img, err = rs.storeImage(ctx, op, *in.Image); err != nil {
			return nil, err
		}
	}
	res, err := rs.recipeAgg.Replace(ctx, domainagg.ReplaceRecipeInput{
		RecipeID:    recipeID,
		Requester:   who,
		Name:        in.Name,
		Image:       img,
		Text:        in.Text,
		CookingTime: in.CookingTime,
		LineItems:   in.Ingredients,
	})
	if err != nil {
		if img != nil {
			rs.assets.discard(ctx, objectstore.BucketCategoryRecipe, img.BucketKey)
		}
		return nil, err
	}
	rs.assets.discard(ctx, objectstore.BucketCategoryRecipe, res.ReplacedImageKey)
	return rs.present(ctx, op, res.Recipe)
}

func (rs *recipeService) Delete(ctx context.Context, recipeID int64) error {
	const op = "Recipe.Delete"
	res, err := rs.recipeAgg.Delete(ctx, domainagg.DeleteRecipeInput{
		RecipeID:  recipeID,
		Requester: requesterFrom(ctx),
	})
	if err != nil {
		return err
	}
	rs.assets.discard(ctx, objectstore.BucketCategoryRecipe, res.ImageBucketKey)
	rs.log.Info("recipe deleted", "recipe_id", recipeID)
	return nil
}

func (rs *recipeService) load(ctx context.Context, op string, recipeID int64) (*types.Recipe, error) {
	found, err := rs.recipeRepo.GetByIDs(dbctx.Context{Ctx: ctx}, []int64{recipeID})
	if err != nil {
		return nil, internalErr(op, err)
	}
	if len(found) == 0 || found[0] == nil {
		return nil, notFoundErr(op, "recipe %d not found", recipeID)
	}
	return found[0], nil
}

func (rs *recipeService) present(ctx context.Context, op string, recipe *types.Recipe) (*RecipeView, error) {
	views, err := rs.views.recipeViews(ctx, ctxutil.ViewerID(ctx), []*types.Recipe{recipe})
	if err != nil {
		return nil, internalErr(op, err)
	}
	return views[0], nil
}

func (rs *recipeService) Get(ctx context.Context, recipeID int64) (*RecipeView, error) {
	const op = "Recipe.Get"
	recipe, err := rs.load(ctx, op, recipeID)
	if err != nil {
		return nil, err
	}
	return rs.present(ctx, op, recipe)
}

func (rs *recipeService) List(ctx context.Context, q RecipeQuery, offset, limit int) ([]*RecipeView, int64, error) {
	const op = "Recipe.List"
	viewerID := ctxutil.ViewerID(ctx)
	filter := repos.RecipeFilter{AuthorID: q.AuthorID}
	// Membership filters only apply to signed-in viewers.
	if viewerID > 0 {
		if q.FavoritedOnly {
			filter.FavoritedBy = viewerID
		}
		if q.InCartOnly {
			filter.InCartOf = viewerID
		}
	}
	recipes, total, err := rs.recipeRepo.List(dbctx.Context{Ctx: ctx}, filter, offset, limit)
	if err != nil {
		return nil, 0, internalErr(op, err)
	}
	views, err := rs.views.recipeViews(ctx, viewerID, recipes)
	if err != nil {
		return nil, 0, internalErr(op, err)
	}
	return views, total, nil
}

func (rs *recipeService) ShortCode(ctx context.Context, recipeID int64) (string, error) {
	if _, err := rs.load(ctx, "Recipe.ShortLink", recipeID); err != nil {
		return "", err
	}
	return shortlink.Encode(recipeID), nil
}

func (rs *recipeService) ResolveShortCode(ctx context.Context, code string) (int64, error) {
	const op = "Recipe.ResolveShortLink"
	id, err := shortlink.Decode(code)
	if err != nil || id <= 0 {
		return 0, domainagg.NewError(domainagg.CodeNotFound, op, "short link not found", err)
	}
	if _, err := rs.load(ctx, op, id); err != nil {
		return 0, err
	}
	return id, nil
}

func (rs *recipeService) ShoppingList(ctx context.Context) (string, error) {
	const op = "Recipe.ShoppingList"
	rd, err := requireViewer(ctx, op)
	if err != nil {
		return "", err
	}
	dbc := dbctx.Context{Ctx: ctx}
	recipeIDs, err := rs.membershipRepo.ListTargets(dbc, types.KindShoppingCart, rd.UserID)
	if err != nil {
		return "", internalErr(op, err)
	}
	var lines []*types.LineItem
	if len(recipeIDs) > 0 {
		if lines, err = rs.lineRepo.GetLinesByRecipeIDs(dbc, recipeIDs); err != nil {
			return "", internalErr(op, err)
		}
	}
	return RenderShoppingList(AggregateShoppingList(lines)), nil
}
