package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/retail-pos/internal/apperr"
	"github.com/tuanvumaihuynh/retail-pos/internal/event"
	"github.com/tuanvumaihuynh/retail-pos/internal/model"
	"github.com/tuanvumaihuynh/retail-pos/internal/storage/blob"
)

func TestProductService_CreateProduct(t *testing.T) {
	t.Run("Should create an active product and announce it", func(t *testing.T) {
		products := newFakeProductRepo()
		outbox := &fakeOutbox{}
		svc := NewProductService(&fakeDB{}, products, outbox, &fakeUploader{})

		product, err := svc.CreateProduct(context.Background(), CreateProductParams{
			Name:          "Galaxy A15",
			Color:         "black",
			Barcode:       "7790001",
			CostPrice:     decimal.NewFromInt(120),
			Markup:        decimal.NewFromInt(50),
			StockQuantity: 4,
		})
		require.NoError(t, err)

		assert.True(t, product.Active)
		assert.Contains(t, products.products, product.ID)

		require.Equal(t, []string{event.TopicCatalogChanged}, outbox.topics())
		ev := decodePayload[event.CatalogChangedEvent](outbox.msgs[0].Payload)
		assert.Equal(t, "product", ev.Entity)
		assert.Equal(t, event.CatalogActionCreated, ev.Action)
	})

	t.Run("Should reject negative prices", func(t *testing.T) {
		outbox := &fakeOutbox{}
		svc := NewProductService(&fakeDB{}, newFakeProductRepo(), outbox, &fakeUploader{})

		_, err := svc.CreateProduct(context.Background(), CreateProductParams{
			Name:      "broken",
			CostPrice: decimal.NewFromInt(-1),
		})
		assert.ErrorIs(t, err, apperr.ValidationErr)
		assert.Empty(t, outbox.msgs)
	})
}

func TestProductService_DeleteProduct(t *testing.T) {
	t.Run("Should only deactivate", func(t *testing.T) {
		p := model.Product{ID: uuid.New(), Name: "Case", Active: true}
		products := newFakeProductRepo(p)
		svc := NewProductService(&fakeDB{}, products, &fakeOutbox{}, &fakeUploader{})

		require.NoError(t, svc.DeleteProduct(context.Background(), p.ID))

		got, ok := products.products[p.ID]
		require.True(t, ok)
		assert.False(t, got.Active)
	})
}

func TestProductService_ListProducts(t *testing.T) {
	t.Run("Should look up by code when one is given", func(t *testing.T) {
		phone := model.Product{ID: uuid.New(), Name: "Phone", Barcode: "7790001", Active: true}
		cable := model.Product{ID: uuid.New(), Name: "Cable", MeiCode1: "MEI-1", Active: true}
		svc := NewProductService(&fakeDB{}, newFakeProductRepo(phone, cable), &fakeOutbox{}, &fakeUploader{})

		products, err := svc.ListProducts(context.Background(), ListProductsParams{Code: " mei-1 "})
		require.NoError(t, err)

		require.Len(t, products, 1)
		assert.Equal(t, cable.ID, products[0].ID)
	})
}

func TestProductService_UploadImage(t *testing.T) {
	t.Run("Should upload to the product bucket and store the url", func(t *testing.T) {
		p := model.Product{ID: uuid.New(), Active: true}
		products := newFakeProductRepo(p)
		uploader := &fakeUploader{}
		svc := NewProductService(&fakeDB{}, products, &fakeOutbox{}, uploader)

		got, err := svc.UploadImage(context.Background(), p.ID, "Photo.PNG", bytes.NewReader([]byte("img")))
		require.NoError(t, err)

		assert.Equal(t, blob.ProductImages, uploader.bucket)
		assert.True(t, strings.HasPrefix(uploader.name, p.ID.String()+"/"))
		assert.True(t, strings.HasSuffix(uploader.name, ".png"))
		assert.Equal(t, got.ImageURL, products.products[p.ID].ImageURL)
	})

	t.Run("Should not upload for unknown product", func(t *testing.T) {
		uploader := &fakeUploader{}
		svc := NewProductService(&fakeDB{}, newFakeProductRepo(), &fakeOutbox{}, uploader)

		_, err := svc.UploadImage(context.Background(), uuid.New(), "a.png", bytes.NewReader(nil))
		assert.ErrorIs(t, err, apperr.ErrProductNotFound)
		assert.Empty(t, uploader.name)
	})
}

func TestImageObjectName(t *testing.T) {
	id := uuid.New()

	name := imageObjectName(id, `C:\Users\ana\..\photo.JPG`)
	assert.True(t, strings.HasPrefix(name, id.String()+"/"))
	assert.True(t, strings.HasSuffix(name, ".jpg"))
	assert.NotContains(t, name, "..")

	assert.NotContains(t, imageObjectName(id, "x.verylongext"), ".verylongext")
}
