package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pawfinder/backend/internal/models"
)

func TestCreateComment(t *testing.T) {
	db := InitTestDB(t)
	h := &CommentHandler{DB: db}
	owner := createUser(t, db, "a@x.com", "A")
	commenter := createUser(t, db, "b@x.com", "B")
	post := createPost(t, db, owner.ID)

	c, rec := newJSONContext(t, http.MethodPost, "/comment", map[string]string{
		"postId":      post.ID,
		"commentText": "I saw this dog near the park",
	})
	asUser(c, commenter.ID)
	require.NoError(t, h.CreateComment(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Comment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, commenter.ID, created.Sender)
	require.Equal(t, post.ID, created.PostID)
}

func TestCreateCommentMissingPost(t *testing.T) {
	db := InitTestDB(t)
	h := &CommentHandler{DB: db}
	commenter := createUser(t, db, "b@x.com", "B")

	c, _ := newJSONContext(t, http.MethodPost, "/comment", map[string]string{
		"postId":      "no-such-post",
		"commentText": "hello",
	})
	asUser(c, commenter.ID)
	requireHTTPError(t, h.CreateComment(c), http.StatusNotFound)

	c, _ = newJSONContext(t, http.MethodPost, "/comment", map[string]string{
		"commentText": "hello",
	})
	asUser(c, commenter.ID)
	requireHTTPError(t, h.CreateComment(c), http.StatusBadRequest)
}

func TestUpdateCommentOwnership(t *testing.T) {
	db := InitTestDB(t)
	h := &CommentHandler{DB: db}
	owner := createUser(t, db, "a@x.com", "A")
	stranger := createUser(t, db, "b@x.com", "B")
	post := createPost(t, db, owner.ID)

	comment := models.Comment{PostID: post.ID, Sender: owner.ID, CommentText: "original"}
	require.NoError(t, db.Create(&comment).Error)

	// missing resource: 404 wins over 403 even for a stranger
	c, _ := newJSONContext(t, http.MethodPut, "/comment/missing", map[string]string{"commentText": "x"})
	withParamID(c, "id", "missing")
	asUser(c, stranger.ID)
	requireHTTPError(t, h.UpdateComment(c), http.StatusNotFound)

	c, _ = newJSONContext(t, http.MethodPut, "/comment/"+comment.ID, map[string]string{"commentText": "hijacked"})
	withParamID(c, "id", comment.ID)
	asUser(c, stranger.ID)
	requireHTTPError(t, h.UpdateComment(c), http.StatusForbidden)

	var stored models.Comment
	require.NoError(t, db.Where("id = ?", comment.ID).First(&stored).Error)
	require.Equal(t, "original", stored.CommentText)

	c, rec := newJSONContext(t, http.MethodPut, "/comment/"+comment.ID, map[string]string{"commentText": "edited"})
	withParamID(c, "id", comment.ID)
	asUser(c, owner.ID)
	require.NoError(t, h.UpdateComment(c))
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, db.Where("id = ?", comment.ID).First(&stored).Error)
	require.Equal(t, "edited", stored.CommentText)
}

func TestDeleteCommentOwnership(t *testing.T) {
	db := InitTestDB(t)
	h := &CommentHandler{DB: db}
	owner := createUser(t, db, "a@x.com", "A")
	stranger := createUser(t, db, "b@x.com", "B")
	post := createPost(t, db, owner.ID)

	comment := models.Comment{PostID: post.ID, Sender: owner.ID, CommentText: "to delete"}
	require.NoError(t, db.Create(&comment).Error)

	c, _ := newJSONContext(t, http.MethodDelete, "/comment/"+comment.ID, nil)
	withParamID(c, "id", comment.ID)
	asUser(c, stranger.ID)
	requireHTTPError(t, h.DeleteComment(c), http.StatusForbidden)

	c, rec := newJSONContext(t, http.MethodDelete, "/comment/"+comment.ID, nil)
	withParamID(c, "id", comment.ID)
	asUser(c, owner.ID)
	require.NoError(t, h.DeleteComment(c))
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestGetCommentsByPost(t *testing.T) {
	db := InitTestDB(t)
	h := &CommentHandler{DB: db}
	owner := createUser(t, db, "a@x.com", "A")
	post := createPost(t, db, owner.ID)
	other := createPost(t, db, owner.ID)

	for _, text := range []string{"first", "second"} {
		require.NoError(t, db.Create(&models.Comment{PostID: post.ID, Sender: owner.ID, CommentText: text}).Error)
	}
	require.NoError(t, db.Create(&models.Comment{PostID: other.ID, Sender: owner.ID, CommentText: "elsewhere"}).Error)

	c, rec := newJSONContext(t, http.MethodGet, "/comment/post/"+post.ID, nil)
	withParamID(c, "postId", post.ID)
	require.NoError(t, h.GetCommentsByPost(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var comments []models.Comment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &comments))
	require.Len(t, comments, 2)
}
