package sdk

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pawwell/pawwell-go/routes"
)

// Pet represents a pet profile owned by the authenticated user.
type Pet struct {
	ID           int64     `json:"id"`
	OwnerID      int64     `json:"owner"`
	Name         string    `json:"name"`
	Species      string    `json:"species"`
	Breed        string    `json:"breed,omitempty"`
	AgeYears     int       `json:"age_years,omitempty"`
	WeightKg     float64   `json:"weight_kg,omitempty"`
	Gender       string    `json:"gender,omitempty"`
	MedicalNotes string    `json:"medical_notes,omitempty"`
	ImageURL     string    `json:"image,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PetRequest contains the writable fields for creating or updating a pet.
// Image is optional; create and update both go over multipart because of it.
type PetRequest struct {
	Name         string
	Species      string
	Breed        string
	AgeYears     int
	WeightKg     float64
	Gender       string
	MedicalNotes string
	Image        *FileUpload
}

// Validate performs the client-side field checks.
func (r PetRequest) Validate() error {
	fields := map[string][]string{}
	if strings.TrimSpace(r.Name) == "" {
		fields["name"] = append(fields["name"], "Pet name is required.")
	}
	if strings.TrimSpace(r.Species) == "" {
		fields["species"] = append(fields["species"], "Species is required.")
	}
	if r.AgeYears < 0 {
		fields["age_years"] = append(fields["age_years"], "Age cannot be negative.")
	}
	if r.WeightKg < 0 {
		fields["weight_kg"] = append(fields["weight_kg"], "Weight cannot be negative.")
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func (r PetRequest) formFields() map[string]string {
	fields := map[string]string{
		"name":    strings.TrimSpace(r.Name),
		"species": strings.TrimSpace(r.Species),
	}
	if r.Breed != "" {
		fields["breed"] = r.Breed
	}
	if r.AgeYears > 0 {
		fields["age_years"] = strconv.Itoa(r.AgeYears)
	}
	if r.WeightKg > 0 {
		fields["weight_kg"] = strconv.FormatFloat(r.WeightKg, 'f', -1, 64)
	}
	if r.Gender != "" {
		fields["gender"] = r.Gender
	}
	if r.MedicalNotes != "" {
		fields["medical_notes"] = r.MedicalNotes
	}
	return fields
}

// PetsClient provides methods for managing pet profiles.
type PetsClient struct {
	client *Client
}

func (c *PetsClient) ensureInitialized() error {
	if c == nil || c.client == nil {
		return fmt.Errorf("sdk: pets client not initialized")
	}
	return nil
}

type petListResponse struct {
	Success bool  `json:"success"`
	Pets    []Pet `json:"pets"`
}

type petResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Pet     *Pet   `json:"pet"`
}

// List returns the authenticated user's pets.
func (c *PetsClient) List(ctx context.Context) ([]Pet, error) {
	if err := c.ensureInitialized(); err != nil {
		return nil, err
	}
	var resp petListResponse
	if err := c.client.sendAndDecode(ctx, http.MethodGet, routes.Pets, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Pets, nil
}

// Get retrieves one pet by id.
func (c *PetsClient) Get(ctx context.Context, petID int64) (Pet, error) {
	if err := c.ensureInitialized(); err != nil {
		return Pet{}, err
	}
	if petID <= 0 {
		return Pet{}, ConfigError{Reason: "pet id is required"}
	}
	var resp petResponse
	path := fmt.Sprintf("%s%d/", routes.Pets, petID)
	if err := c.client.sendAndDecode(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return Pet{}, err
	}
	if resp.Pet == nil {
		return Pet{}, fmt.Errorf("sdk: missing pet in response")
	}
	return *resp.Pet, nil
}

// Create adds a pet profile, optionally with an image, over multipart.
func (c *PetsClient) Create(ctx context.Context, req PetRequest) (Pet, error) {
	if err := c.ensureInitialized(); err != nil {
		return Pet{}, err
	}
	if err := req.Validate(); err != nil {
		return Pet{}, err
	}
	var resp petResponse
	if err := c.client.sendMultipartAndDecode(ctx, http.MethodPost, routes.Pets, req.formFields(), req.Image, &resp); err != nil {
		return Pet{}, err
	}
	if resp.Pet == nil {
		return Pet{}, fmt.Errorf("sdk: missing pet in response")
	}
	return *resp.Pet, nil
}

// Update replaces a pet's writable fields. Omitting Image keeps the current
// one.
func (c *PetsClient) Update(ctx context.Context, petID int64, req PetRequest) (Pet, error) {
	if err := c.ensureInitialized(); err != nil {
		return Pet{}, err
	}
	if petID <= 0 {
		return Pet{}, ConfigError{Reason: "pet id is required"}
	}
	if err := req.Validate(); err != nil {
		return Pet{}, err
	}
	var resp petResponse
	path := fmt.Sprintf("%s%d/", routes.Pets, petID)
	if err := c.client.sendMultipartAndDecode(ctx, http.MethodPut, path, req.formFields(), req.Image, &resp); err != nil {
		return Pet{}, err
	}
	if resp.Pet == nil {
		return Pet{}, fmt.Errorf("sdk: missing pet in response")
	}
	return *resp.Pet, nil
}

// Delete removes a pet profile.
func (c *PetsClient) Delete(ctx context.Context, petID int64) error {
	if err := c.ensureInitialized(); err != nil {
		return err
	}
	if petID <= 0 {
		return ConfigError{Reason: "pet id is required"}
	}
	path := fmt.Sprintf("%s%d/", routes.Pets, petID)
	return c.client.sendAndDecode(ctx, http.MethodDelete, path, nil, nil)
}
