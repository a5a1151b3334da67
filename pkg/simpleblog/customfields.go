package simpleblog

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"
)

func (s *service) GetField(ctx context.Context, scope FieldScope, ownerID int64, key string) (string, error) {
	uow, err := s.begin(ctx)
	if err != nil {
		return "", err
	}
	defer uow.Rollback(ctx)

	value, err := getField(ctx, uow, scope, ownerID, key)
	if err != nil {
		return "", err
	}
	return value, uow.Complete(ctx)
}

// SetField upserts the (scope, owner, key) record. The lookup and the write
// run in the same unit of work; two concurrent sets on one key may still
// race across requests and resolve to last-committed-write-wins, but never
// to duplicate rows.
func (s *service) SetField(ctx context.Context, scope FieldScope, ownerID int64, key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return &ValidationError{Field: "key", Reason: "must not be empty"}
	}

	uow, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer uow.Rollback(ctx)

	if err := setField(ctx, uow, scope, ownerID, key, value); err != nil {
		return err
	}
	return uow.Complete(ctx)
}

func (s *service) GetFields(ctx context.Context, scope FieldScope, ownerID int64) (map[string]string, error) {
	uow, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback(ctx)

	fields, err := uow.ListCustomFields(ctx, scope, ownerID)
	if err != nil {
		return nil, err
	}
	if err := uow.Complete(ctx); err != nil {
		return nil, err
	}

	values := make(map[string]string, len(fields))
	for _, f := range fields {
		values[f.Key] = f.Value
	}
	return values, nil
}

// GetIntField reads a field through strconv; the fallback covers both an
// absent key and an unparsable value. Typed interpretation lives here at the
// call site, the store itself stays schema-free.
func (s *service) GetIntField(ctx context.Context, scope FieldScope, ownerID int64, key string, fallback int) (int, error) {
	value, err := s.GetField(ctx, scope, ownerID, key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback, nil
	}
	return n, nil
}

// GetBoolField is the boolean counterpart of GetIntField.
func (s *service) GetBoolField(ctx context.Context, scope FieldScope, ownerID int64, key string, fallback bool) (bool, error) {
	value, err := s.GetField(ctx, scope, ownerID, key)
	if err != nil {
		return false, err
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return fallback, nil
	}
	return b, nil
}

func (s *service) Subscribe(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return &ValidationError{Field: "email", Reason: "not an email address"}
	}

	uow, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer uow.Rollback(ctx)

	emails, err := subscriberList(ctx, uow)
	if err != nil {
		return err
	}
	for _, existing := range emails {
		if existing == email {
			return uow.Complete(ctx)
		}
	}
	emails = append(emails, email)
	if err := setField(ctx, uow, ScopeApplication, 0, FieldNewsletter, strings.Join(emails, ",")); err != nil {
		return err
	}
	return uow.Complete(ctx)
}

func (s *service) Unsubscribe(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)

	uow, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer uow.Rollback(ctx)

	emails, err := subscriberList(ctx, uow)
	if err != nil {
		return err
	}
	kept := emails[:0]
	for _, existing := range emails {
		if existing != email {
			kept = append(kept, existing)
		}
	}
	if len(kept) == len(emails) {
		return uow.Complete(ctx)
	}
	if err := setField(ctx, uow, ScopeApplication, 0, FieldNewsletter, strings.Join(kept, ",")); err != nil {
		return err
	}
	return uow.Complete(ctx)
}

func (s *service) Subscribers(ctx context.Context) ([]string, error) {
	uow, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback(ctx)

	emails, err := subscriberList(ctx, uow)
	if err != nil {
		return nil, err
	}
	return emails, uow.Complete(ctx)
}

// getField translates the repository's not-found into the empty value the
// attribute store contract promises.
func getField(ctx context.Context, uow UnitOfWork, scope FieldScope, ownerID int64, key string) (string, error) {
	field, err := uow.GetCustomField(ctx, scope, ownerID, key)
	if errors.Is(err, ErrFieldNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return field.Value, nil
}

func setField(ctx context.Context, uow UnitOfWork, scope FieldScope, ownerID int64, key, value string) error {
	field, err := uow.GetCustomField(ctx, scope, ownerID, key)
	switch {
	case err == nil:
		field.Value = value
		field.LastUpdated = time.Now().UTC()
		return uow.UpdateCustomField(ctx, field)
	case errors.Is(err, ErrFieldNotFound):
		return uow.CreateCustomField(ctx, &CustomField{
			Scope:       scope,
			OwnerID:     ownerID,
			Key:         key,
			Value:       value,
			Title:       key,
			LastUpdated: time.Now().UTC(),
		})
	default:
		return err
	}
}

func subscriberList(ctx context.Context, uow UnitOfWork) ([]string, error) {
	value, err := getField(ctx, uow, ScopeApplication, 0, FieldNewsletter)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	var emails []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			emails = append(emails, part)
		}
	}
	return emails, nil
}
