// Package upload implements the upload orchestration and key-derivation
// pipelines: fetch or decode content, unpack ZIP archives, derive
// tenant/user/product-scoped storage keys and write each file to the object
// store, aggregating per-item successes and failures into a GroupResult.
package upload

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/example/uploadgateway/internal/archive"
	"github.com/example/uploadgateway/internal/models"
	"github.com/example/uploadgateway/internal/storage"
)

// DefaultFanout bounds how many items of one URL-list request are in flight
// at once.
const DefaultFanout = 4

// Service drives the three upload pipelines against a shared object store.
// The store is created once at startup and must be safe for concurrent use;
// the service itself holds no per-request state.
type Service struct {
	store   storage.ObjectStore
	fetcher ContentFetcher
	log     *slog.Logger
	fanout  int
	now     func() time.Time
}

// NewService creates an upload service. fanout <= 1 disables item-level
// concurrency.
func NewService(store storage.ObjectStore, fetcher ContentFetcher, log *slog.Logger, fanout int) *Service {
	if fanout < 1 {
		fanout = 1
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		store:   store,
		fetcher: fetcher,
		log:     log,
		fanout:  fanout,
		now:     time.Now,
	}
}

// SaveFolder downloads a ZIP archive, groups its entries by containing
// folder and stores every file under a directory derived from the tenant,
// the hashed user identifier and the folder name. Fetch failure or archive
// corruption is fatal to the request: no group structure exists yet to
// attribute a partial failure to. Per-entry failures append an error string
// to that folder's list and processing continues.
func (s *Service) SaveFolder(ctx context.Context, req models.FolderRequest) (*GroupResult, error) {
	start := s.now()

	data, err := s.fetcher.Fetch(ctx, req.ZipFolder.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch zip file: %w", err)
	}

	entries, err := archive.Extract(data, req.ZipFolder.URL)
	if err != nil {
		return nil, err
	}

	result := NewGroupResult()
	for _, group := range archive.GroupByFolder(entries) {
		result.Ensure(group.Name)
		directory := Directory(req.Tenant, req.User.MobileNo, group.Name)

		for _, entry := range group.Entries {
			fileName := TimestampedName(entry.Name, s.now())
			kind := KindForName(fileName)

			url, err := s.put(ctx, directory, fileName, entry.Data, kind)
			if err != nil {
				result.Append(group.Name, fmt.Sprintf("Error processing file %s: %v", entry.Path, err))
				continue
			}
			result.Append(group.Name, url)
		}
	}

	s.log.Info("folder upload complete",
		"source", req.ZipFolder.URL,
		"folders", result.Len(),
		"duration", s.now().Sub(start))
	return result, nil
}

// SaveFiles downloads each URL-sourced image of one product and stores it
// under the product's derived directory. Entries declared as ZIP archives
// are unpacked and every contained file stored individually. All failures
// are caught at the item boundary and appended as error strings; the
// pipeline never aborts early. Items fan out across a bounded group of
// workers, but the result list keeps request order and one item's failure
// never cancels its siblings.
func (s *Service) SaveFiles(ctx context.Context, req models.FileRequest) (*GroupResult, error) {
	code := req.Product.TmpCode
	directory := Directory(req.Tenant, req.User.MobileNo, code)

	results := make([][]string, len(req.Product.Images))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fanout)
	for i, img := range req.Product.Images {
		g.Go(func() error {
			results[i] = s.saveImageEntry(gctx, directory, img)
			return nil
		})
	}
	// Workers only ever return nil; failures live in the result entries.
	_ = g.Wait()

	result := NewGroupResult()
	result.Ensure(code)
	for _, entries := range results {
		result.Append(code, entries...)
	}
	return result, nil
}

// saveImageEntry handles one top-level item of a URL-list upload and returns
// the entries (URLs or error strings) it contributes to the product's list.
func (s *Service) saveImageEntry(ctx context.Context, directory string, img models.Image) []string {
	data, err := s.fetcher.Fetch(ctx, img.URL)
	if err != nil {
		return []string{fmt.Sprintf("Error downloading %s: %v", img.URL, err)}
	}

	if img.ImageType == models.KindZIP {
		entries, err := archive.Extract(data, img.URL)
		if err != nil {
			return []string{fmt.Sprintf("Invalid ZIP file format: %s", img.URL)}
		}

		out := make([]string, 0, len(entries))
		for _, entry := range entries {
			kind := KindForName(entry.Name)
			url, err := s.put(ctx, directory, entry.Name, entry.Data, kind)
			if err != nil {
				out = append(out, fmt.Sprintf("Error processing file %s from ZIP: %v", entry.Path, err))
				continue
			}
			out = append(out, url)
		}
		return out
	}

	fileName := FileNameFromURL(img.URL)
	if fileName == "" {
		fileName = SynthesizedName(img.URL, string(img.ImageType))
	}

	url, err := s.put(ctx, directory, fileName, data, img.ImageType)
	if err != nil {
		return []string{fmt.Sprintf("Error processing %s: %v", img.URL, err)}
	}
	return []string{url}
}

// SaveProductBytes decodes inline base64 images and stores them per product,
// stamping every file name with one timestamp per product batch. Declared
// names and types are used as-is; nothing is inferred and archives are not
// unpacked. A product whose images all fail still appears in the result.
func (s *Service) SaveProductBytes(ctx context.Context, req models.BytesRequest) (*GroupResult, error) {
	result := NewGroupResult()

	for _, product := range req.Products {
		code := product.ProductCode
		result.Ensure(code)
		directory := Directory(req.Tenant, req.User.MobileNo, code)
		batch := s.now()

		for _, img := range product.Images {
			data, err := DecodeBase64(img.ImageName, img.ImageBytes)
			if err != nil {
				s.log.Warn("inline image decode failed",
					"product", code, "image", img.ImageName, "err", err)
				result.Append(code, fmt.Sprintf("Error processing %s: %v", img.ImageName, err))
				continue
			}

			fileName := BatchName(img.ImageName, batch)
			url, err := s.put(ctx, directory, fileName, data, img.ImageType)
			if err != nil {
				s.log.Warn("inline image upload failed",
					"product", code, "image", img.ImageName, "err", err)
				result.Append(code, fmt.Sprintf("Error processing %s: %v", img.ImageName, err))
				continue
			}
			result.Append(code, url)
		}
	}
	return result, nil
}

// put derives the object key and writes one file to the store.
func (s *Service) put(ctx context.Context, directory, fileName string, data []byte, contentType models.ContentKind) (string, error) {
	key := ObjectKey(directory, fileName)
	url, err := s.store.Put(ctx, key, bytes.NewReader(data), string(contentType))
	if err != nil {
		return "", &WriteError{Key: key, Err: err}
	}
	return url, nil
}
