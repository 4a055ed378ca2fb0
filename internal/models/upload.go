// Package models provides the request and response types for the upload gateway
package models

import (
	"errors"
	"fmt"
)

// DefaultTenant is used when a request does not name a tenant.
const DefaultTenant = "placeorder"

// ContentKind is the closed set of content types accepted on the wire.
// It doubles as the declared type of an inbound file and as the
// Content-Type stored on the resulting object.
type ContentKind string

const (
	KindPDF    ContentKind = "application/pdf"
	KindImage  ContentKind = "image/jpeg"
	KindZIP    ContentKind = "application/zip"
	KindJSON   ContentKind = "application/json"
	KindPNG    ContentKind = "image/png"
	KindBinary ContentKind = "binary/octet-stream"
)

// Valid reports whether k is one of the accepted content kinds.
func (k ContentKind) Valid() bool {
	switch k {
	case KindPDF, KindImage, KindZIP, KindJSON, KindPNG, KindBinary:
		return true
	}
	return false
}

// User identifies the uploading user. MobileNo is the stable identifier
// that key derivation hashes; it must never appear in a storage path.
type User struct {
	MobileNo    string `json:"mobile_no"`
	CompanyName string `json:"company_name,omitempty"`
}

// Image is one URL-sourced file with its declared content type.
type Image struct {
	ImageType ContentKind `json:"image_type"`
	URL       string      `json:"url"`
}

// ZipFolderInfo points at a ZIP archive of product folders.
type ZipFolderInfo struct {
	URL string `json:"url"`
}

// Product groups URL-sourced images under a temporary product code.
type Product struct {
	TmpCode string  `json:"tmp_code"`
	Images  []Image `json:"images"`
}

// FolderRequest uploads a ZIP archive whose inner folders become groups.
type FolderRequest struct {
	User      User          `json:"user"`
	ZipFolder ZipFolderInfo `json:"zip_folder"`
	Tenant    string        `json:"tenant"`
}

// FileRequest uploads a list of URL-sourced images for one product.
type FileRequest struct {
	User    User    `json:"user"`
	Product Product `json:"product"`
	Tenant  string  `json:"tenant"`
}

// ByteImage is an inline base64-encoded file with an explicit name and type.
type ByteImage struct {
	ImageName  string      `json:"image_name"`
	ImageType  ContentKind `json:"image_type"`
	ImageBytes string      `json:"image_bytes"`
}

// ByteProduct groups inline images under a product code.
type ByteProduct struct {
	ProductCode string      `json:"product_code"`
	Images      []ByteImage `json:"images"`
}

// BytesRequest uploads inline base64 images for multiple products.
type BytesRequest struct {
	User     User          `json:"user"`
	Products []ByteProduct `json:"products"`
	Tenant   string        `json:"tenant"`
}

var errMissingUser = errors.New("user.mobile_no is required")

func (u User) validate() error {
	if u.MobileNo == "" {
		return errMissingUser
	}
	return nil
}

// Normalize fills in the default tenant.
func (r *FolderRequest) Normalize() {
	if r.Tenant == "" {
		r.Tenant = DefaultTenant
	}
}

// Validate checks the request shape before any pipeline runs.
func (r *FolderRequest) Validate() error {
	if err := r.User.validate(); err != nil {
		return err
	}
	if r.ZipFolder.URL == "" {
		return errors.New("zip_folder.url is required")
	}
	return nil
}

// Normalize fills in the default tenant.
func (r *FileRequest) Normalize() {
	if r.Tenant == "" {
		r.Tenant = DefaultTenant
	}
}

// Validate checks the request shape before any pipeline runs.
func (r *FileRequest) Validate() error {
	if err := r.User.validate(); err != nil {
		return err
	}
	if r.Product.TmpCode == "" {
		return errors.New("product.tmp_code is required")
	}
	for i, img := range r.Product.Images {
		if img.URL == "" {
			return fmt.Errorf("product.images[%d].url is required", i)
		}
		if !img.ImageType.Valid() {
			return fmt.Errorf("product.images[%d].image_type %q is not supported", i, img.ImageType)
		}
	}
	return nil
}

// Normalize fills in the default tenant.
func (r *BytesRequest) Normalize() {
	if r.Tenant == "" {
		r.Tenant = DefaultTenant
	}
}

// Validate checks the request shape before any pipeline runs.
func (r *BytesRequest) Validate() error {
	if err := r.User.validate(); err != nil {
		return err
	}
	for i, p := range r.Products {
		if p.ProductCode == "" {
			return fmt.Errorf("products[%d].product_code is required", i)
		}
		for j, img := range p.Images {
			if img.ImageName == "" {
				return fmt.Errorf("products[%d].images[%d].image_name is required", i, j)
			}
			if !img.ImageType.Valid() {
				return fmt.Errorf("products[%d].images[%d].image_type %q is not supported", i, j, img.ImageType)
			}
		}
	}
	return nil
}
