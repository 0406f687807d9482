package secrets

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSecretsManager struct {
	out *secretsmanager.GetSecretValueOutput
	err error
	got string
}

func (f *fakeSecretsManager) GetSecretValue(_ context.Context, in *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.got = aws.ToString(in.SecretId)
	return f.out, f.err
}

func TestAWSStore_GetSecret(t *testing.T) {
	api := &fakeSecretsManager{out: &secretsmanager.GetSecretValueOutput{SecretString: aws.String(`{"apiKey":"sk"}`)}}
	store := &AWSStore{client: api}

	v, err := store.GetSecret(context.Background(), "prod/openai")
	require.NoError(t, err)
	assert.Equal(t, `{"apiKey":"sk"}`, v)
	assert.Equal(t, "prod/openai", api.got)
}

func TestAWSStore_Errors(t *testing.T) {
	store := &AWSStore{client: &fakeSecretsManager{err: &types.ResourceNotFoundException{Message: aws.String("nope")}}}
	_, err := store.GetSecret(context.Background(), "x")
	assert.ErrorIs(t, err, ErrSecretNotFound)

	store = &AWSStore{client: &fakeSecretsManager{err: errors.New("AccessDenied")}}
	_, err = store.GetSecret(context.Background(), "x")
	assert.EqualError(t, err, "AccessDenied")

	store = &AWSStore{client: &fakeSecretsManager{out: &secretsmanager.GetSecretValueOutput{}}}
	_, err = store.GetSecret(context.Background(), "binary")
	assert.Error(t, err)
}
