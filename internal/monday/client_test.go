package monday

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/robby/mondaypro/internal/auth"
	"github.com/robby/mondaypro/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequest_SendsBodyWithDefaults(t *testing.T) {
	fake := &fakeRequester{responses: []string{`{"data":{"me":{"id":"7"}}}`}}
	client := New(fake)

	body := NewRequest("query { me { id } }").Var("x", 1)
	resp, err := client.Request(context.Background(), body)
	require.NoError(t, err)

	call := fake.call(t, 0)
	assert.Equal(t, auth.CredentialAccessToken, call.Credential)
	assert.Equal(t, http.MethodPost, call.Options.Method)
	assert.Equal(t, "https://api.monday.com/v2/", call.Options.URL)
	assert.Equal(t, "2025-10", call.Options.Headers["API-Version"])
	assert.Equal(t, "application/json", call.Options.Headers["Content-Type"])
	assert.True(t, call.Options.JSON)
	assert.Same(t, body, call.Options.Body)
	assert.Equal(t, "query { me { id } }", call.Body["query"])

	assert.True(t, resp.HasData())
	v, _, ok := resp.Lookup("data.me.id")
	require.True(t, ok)
	assert.Equal(t, `"7"`, string(v))
}

func TestRequest_NilBodyIsEmptyObject(t *testing.T) {
	fake := &fakeRequester{}
	client := New(fake)

	_, err := client.Request(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, fake.call(t, 0).Body)
	assert.NotNil(t, fake.call(t, 0).Body)
}

func TestRequest_CredentialFollowsMode(t *testing.T) {
	tests := []struct {
		mode auth.Mode
		want string
	}{
		{auth.ModeOAuth2, "mondayProOAuth2Api"},
		{auth.ModeAccessToken, "mondayProApi"},
		{auth.Mode("somethingElse"), "mondayProApi"},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			fake := &fakeRequester{}
			client := New(fake, WithMode(tt.mode))

			_, err := client.Request(context.Background(), NewRequest("{ me { id } }"))
			require.NoError(t, err)
			assert.Equal(t, tt.want, fake.call(t, 0).Credential)
		})
	}
}

func TestRequest_OverridesWin(t *testing.T) {
	fake := &fakeRequester{}
	client := New(fake, WithTransportOptions(transport.WithURL("http://config.local/v2")))

	_, err := client.Request(context.Background(), NewRequest("{ me { id } }"),
		transport.WithURL("http://override.local/v2"))
	require.NoError(t, err)
	assert.Equal(t, "http://override.local/v2", fake.call(t, 0).Options.URL)
}

func TestRequest_UnrelatedOverrideKeepsDefaults(t *testing.T) {
	fake := &fakeRequester{}
	client := New(fake)

	_, err := client.Request(context.Background(), NewRequest("{ me { id } }"),
		transport.WithTimeout(3*time.Second))
	require.NoError(t, err)

	opts := fake.call(t, 0).Options
	assert.Equal(t, 3*time.Second, opts.Timeout)
	assert.Equal(t, transport.DefaultURL, opts.URL)
	assert.Equal(t, transport.DefaultHeaders(), opts.Headers)
	assert.Equal(t, http.MethodPost, opts.Method)
}

func TestRequest_GraphQLErrorsAreReturnedAsData(t *testing.T) {
	fake := &fakeRequester{responses: []string{`{"errors":[{"message":"bad"},{"message":"worse"}]}`}}
	client := New(fake)

	resp, err := client.Request(context.Background(), NewRequest("{ me { id } }"))
	require.NoError(t, err)
	assert.False(t, resp.HasData())
	assert.Equal(t, []string{"bad", "worse"}, resp.ErrorMessages())
}

func TestRequest_NonConformingBodyKeptRaw(t *testing.T) {
	fake := &fakeRequester{responses: []string{`[1,2,3]`}}
	client := New(fake)

	resp, err := client.Request(context.Background(), NewRequest("{ me { id } }"))
	require.NoError(t, err)
	assert.False(t, resp.HasData())
	assert.Empty(t, resp.Errors)
	assert.Equal(t, `[1,2,3]`, string(resp.Raw))
}

func TestRequest_TransportFailureIsAPIError(t *testing.T) {
	cause := errors.New("connection refused")
	fake := &fakeRequester{errs: []error{cause}}
	client := New(fake)

	_, err := client.Request(context.Background(), NewRequest("{ me { id } }"))
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "connection refused", apiErr.Message)
	assert.Zero(t, apiErr.StatusCode)
	assert.True(t, errors.Is(err, cause))
}

func TestRequest_HTTPErrorCarriesPayload(t *testing.T) {
	httpErr := &transport.HTTPError{
		StatusCode: http.StatusUnauthorized,
		Status:     "401 Unauthorized",
		Body:       []byte(`{"errors":[{"message":"Not Authenticated"}]}`),
	}
	fake := &fakeRequester{errs: []error{httpErr}}
	client := New(fake)

	_, err := client.Request(context.Background(), NewRequest("{ me { id } }"))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "Not Authenticated")
	assert.Contains(t, string(apiErr.Payload), "Not Authenticated")
	assert.Contains(t, err.Error(), "monday.com API error")
}

func TestMakeRequest_WithoutHTTPClient(t *testing.T) {
	client := New(&fakeRequester{})

	_, err := client.Me(context.Background())
	assert.Error(t, err)
}
