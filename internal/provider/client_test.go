package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMailbox(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "get_email_address", r.URL.Query().Get("f"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"email_addr":"abc123@temp.test","sid_token":"tok1","email_timestamp":1700000000}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	acct, err := c.CreateMailbox(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc123@temp.test", acct.EmailAddress)
	assert.Equal(t, "tok1", acct.SessionToken)
	assert.Equal(t, int64(1700000000), acct.IssuedAt)
	assert.True(t, acct.Valid())
}

func TestCreateMailboxMissingToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"email_addr":"abc123@temp.test"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	_, err := c.CreateMailbox(context.Background())
	require.Error(t, err)
	assert.True(t, IsProviderError(err))
}

func TestListMessages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "get_email_list", q.Get("f"))
		assert.Equal(t, "0", q.Get("offset"))
		assert.Equal(t, "tok1", q.Get("sid_token"))
		w.Write([]byte(`{"list":[
			{"mail_id":"1","mail_from":"a@x.test","mail_subject":"hi","mail_excerpt":"hey","mail_timestamp":"1700000001","mail_read":"0"},
			{"mail_id":"2","mail_from":"b@x.test","mail_subject":"yo","mail_excerpt":"sup","mail_timestamp":1700000002,"mail_read":1}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	msgs, err := c.ListMessages(context.Background(), "tok1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "1", msgs[0].ID)
	assert.Equal(t, int64(1700000001), msgs[0].ReceivedAt)
	assert.False(t, msgs[0].Read)
	assert.True(t, msgs[1].Read)
}

func TestListMessagesEmptyInbox(t *testing.T) {
	// A missing "list" field means an empty inbox, not an error.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"count":0}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	msgs, err := c.ListMessages(context.Background(), "tok1")
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestListMessagesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	_, err := c.ListMessages(context.Background(), "tok1")
	require.Error(t, err)
	assert.True(t, IsProviderError(err))
}

func TestListMessagesMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"list": not-json`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	_, err := c.ListMessages(context.Background(), "tok1")
	require.Error(t, err)
	assert.True(t, IsProviderError(err))
}

func TestFetchMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "fetch_email", q.Get("f"))
		assert.Equal(t, "42", q.Get("email_id"))
		w.Write([]byte(`{"mail_id":"42","mail_from":"a@x.test","mail_subject":"hi","mail_timestamp":1700000001,"mail_read":1,"mail_body":"<p>hello</p>"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	detail, err := c.FetchMessage(context.Background(), "tok1", "42")
	require.NoError(t, err)
	assert.Equal(t, "42", detail.ID)
	assert.Equal(t, "<p>hello</p>", detail.Body)
}

func TestFetchMessageUnknownID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	_, err := c.FetchMessage(context.Background(), "tok1", "nope")
	require.Error(t, err)
	assert.True(t, IsProviderError(err))
}

func TestRenameAndForget(t *testing.T) {
	var fns []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fns = append(fns, r.URL.Query().Get("f"))
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	require.NoError(t, c.RenameMailbox(context.Background(), "tok1", "newname"))
	require.NoError(t, c.ForgetMailbox(context.Background(), "tok1"))
	assert.Equal(t, []string{"set_email_user", "forget_me"}, fns)
}

func TestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 20*time.Millisecond)
	_, err := c.ListMessages(context.Background(), "tok1")
	require.Error(t, err)
	assert.True(t, IsProviderError(err))
}
