package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateComment_BodyPostID(t *testing.T) {
	_, app := newTestServer(t)
	aliceToken, _ := registerUser(t, app, "alice")
	bobToken, _ := registerUser(t, app, "bob")

	postID := createPost(t, app, aliceToken, "commented", "body", "")

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/post/comment", map[string]any{
		"post_id": postID,
		"content": "nice one",
	}, bobToken))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		ID      uint   `json:"id"`
		Content string `json:"content"`
		Author  string `json:"author"`
	}
	decodeBody(t, resp, &body)
	assert.NotZero(t, body.ID)
	assert.Equal(t, "nice one", body.Content)
	assert.Equal(t, "bob", body.Author)
}

func TestCreateComment_PathPostID(t *testing.T) {
	_, app := newTestServer(t)
	aliceToken, _ := registerUser(t, app, "alice")

	postID := createPost(t, app, aliceToken, "commented", "body", "")

	resp, err := app.Test(jsonRequest(t, http.MethodPost,
		fmt.Sprintf("/post/%d/comment", postID), map[string]any{
			"content": "via path",
		}, aliceToken))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Both comments routes feed the same listing.
	listResp, err := app.Test(jsonRequest(t, http.MethodGet,
		fmt.Sprintf("/post/%d/comments", postID), nil, ""))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, listResp.StatusCode)

	var listBody struct {
		Comments []struct {
			Content string `json:"content"`
		} `json:"comments"`
	}
	decodeBody(t, listResp, &listBody)
	require.Len(t, listBody.Comments, 1)
	assert.Equal(t, "via path", listBody.Comments[0].Content)
}

func TestCreateComment_Validation(t *testing.T) {
	_, app := newTestServer(t)
	token, _ := registerUser(t, app, "alice")
	postID := createPost(t, app, token, "p", "body", "")

	// Empty content.
	resp, err := app.Test(jsonRequest(t, http.MethodPost,
		fmt.Sprintf("/post/%d/comment", postID), map[string]any{"content": "   "}, token))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Missing post id.
	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/post/comment",
		map[string]any{"content": "hello"}, token))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Unknown post.
	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/post/comment",
		map[string]any{"post_id": 9999, "content": "hello"}, token))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
