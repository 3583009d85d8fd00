// Package mocks provides mock expectation helpers for common testing patterns
package mocks

import (
	"context"

	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/cryptea/internal/clients/storage"
	storagemock "github.com/KirkDiggler/cryptea/internal/clients/storage/mock"
	"github.com/KirkDiggler/cryptea/internal/errors"
	selectionsession "github.com/KirkDiggler/cryptea/internal/repositories/selection_session"
	selectionsessionmock "github.com/KirkDiggler/cryptea/internal/repositories/selection_session/mock"
)

// ExpectSessionGet sets up a mock expectation for reading a session.
// A nil session returns NotFound.
func ExpectSessionGet(
	ctx context.Context, mockRepo *selectionsessionmock.MockRepository,
	sessionID string, session *selectionsession.Session,
) *gomock.Call {
	call := mockRepo.EXPECT().Get(ctx, selectionsession.GetInput{ID: sessionID})
	if session == nil {
		return call.Return(nil, errors.NotFoundf("session %s not found", sessionID))
	}
	return call.Return(&selectionsession.GetOutput{Session: session.Clone()}, nil)
}

// ExpectSessionUpdate accepts an update and returns the session with its
// revision bumped, the way a repository would. Each written session is
// passed to observe when it is non-nil. ctx may be a gomock matcher.
func ExpectSessionUpdate(
	ctx any, mockRepo *selectionsessionmock.MockRepository,
	observe func(*selectionsession.Session),
) *gomock.Call {
	return mockRepo.EXPECT().
		Update(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input selectionsession.UpdateInput) (*selectionsession.UpdateOutput, error) {
			stored := input.Session.Clone()
			stored.Revision++
			if observe != nil {
				observe(stored.Clone())
			}
			return &selectionsession.UpdateOutput{Session: stored}, nil
		})
}

// ExpectUpload sets up a mock expectation for one storage upload that
// answers with uri
func ExpectUpload(
	ctx context.Context, mockClient *storagemock.MockClient,
	contentType, uri string,
) *gomock.Call {
	return mockClient.EXPECT().
		Put(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input *storage.PutInput) (*storage.PutOutput, error) {
			if input.ContentType != contentType {
				return nil, errors.InvalidArgumentf("unexpected content type %s", input.ContentType)
			}
			return &storage.PutOutput{URI: uri, Hash: storage.ContentHash(input.Data)}, nil
		})
}
