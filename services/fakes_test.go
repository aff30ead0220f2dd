package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"slices"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/winteradda/storefront/models"
	"github.com/winteradda/storefront/pkg"
)

// ─── product repository ───

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[string]models.Product
	order    []string
	seq      int
	failNext error
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[string]models.Product{}}
}

func (r *fakeProductRepo) Create(ctx context.Context, p *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.takeFailure(); err != nil {
		return err
	}
	r.seq++
	p.ID = fmt.Sprintf("p%d", r.seq)
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	r.products[p.ID] = clone(*p)
	r.order = append(r.order, p.ID)
	return nil
}

func (r *fakeProductRepo) GetByID(ctx context.Context, id string) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("%w: product", pkg.ErrNotFound)
	}
	c := clone(p)
	return &c, nil
}

func (r *fakeProductRepo) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Product{}
	for _, id := range r.order {
		p, ok := r.products[id]
		if !ok {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.FeaturedOnly && !p.IsFeatured {
			continue
		}
		out = append(out, clone(p))
	}
	return out, nil
}

func (r *fakeProductRepo) Update(ctx context.Context, p *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.takeFailure(); err != nil {
		return err
	}
	if _, ok := r.products[p.ID]; !ok {
		return fmt.Errorf("%w: product", pkg.ErrNotFound)
	}
	p.UpdatedAt = time.Now()
	r.products[p.ID] = clone(*p)
	return nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return fmt.Errorf("%w: product", pkg.ErrNotFound)
	}
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) ImageInUse(ctx context.Context, ref string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.Image == ref || slices.Contains(p.Images, ref) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeProductRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.products)
}

func (r *fakeProductRepo) takeFailure() error {
	err := r.failNext
	r.failNext = nil
	return err
}

func clone(p models.Product) models.Product {
	p.Images = append([]string(nil), p.Images...)
	p.Colors = append([]string(nil), p.Colors...)
	p.Sizes = append([]string(nil), p.Sizes...)
	return p
}

// ─── image store ───

type fakeImageStore struct {
	mu      sync.Mutex
	stored  map[string][]byte
	deleted []string
	saves   int
	failAt  int // 1-based Save call that fails; 0 never fails
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{stored: map[string][]byte{}}
}

func (s *fakeImageStore) Save(ctx context.Context, r io.Reader, filename string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.failAt == s.saves {
		return "", errors.New("hosting unavailable")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	ref := fmt.Sprintf("/uploads/%d_%s", s.saves, filename)
	s.stored[ref] = data
	return ref, nil
}

func (s *fakeImageStore) Delete(ctx context.Context, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.stored, ref)
	s.deleted = append(s.deleted, ref)
	return nil
}

func (s *fakeImageStore) storedRefs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	refs := make([]string, 0, len(s.stored))
	for ref := range s.stored {
		refs = append(refs, ref)
	}
	sort.Strings(refs)
	return refs
}

// ─── multipart files ───

type upload struct {
	name        string
	contentType string
	body        string
}

// fileHeaders builds real *multipart.FileHeader values by round-tripping a
// multipart body, so Open works as it does in a request.
func fileHeaders(t *testing.T, uploads ...upload) []*multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for _, u := range uploads {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="images"; filename="%s"`, u.name))
		ct := u.contentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		w, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = w.Write([]byte(u.body))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	form, err := multipart.NewReader(body, mw.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["images"]
}

func images(t *testing.T, names ...string) []*multipart.FileHeader {
	t.Helper()
	uploads := make([]upload, len(names))
	for i, n := range names {
		uploads[i] = upload{name: n, body: "data-" + n}
	}
	return fileHeaders(t, uploads...)
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func boolValue(b bool) *bool { return &b }
