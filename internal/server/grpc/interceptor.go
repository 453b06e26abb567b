package grpc

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/billsync/internal/api"
	"github.com/dmitrijs2005/billsync/internal/common"
	"github.com/dmitrijs2005/billsync/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// publicMethods can be called without an access token.
var publicMethods = map[string]bool{
	api.BillingService_Register_FullMethodName: true,
	api.BillingService_GetSalt_FullMethodName:  true,
	api.BillingService_Login_FullMethodName:    true,
}

func isPublic(method string) bool {
	return publicMethods[method] || strings.HasPrefix(method, "/grpc.health.v1.Health/")
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {

	if isPublic(info.FullMethod) {
		return handler(ctx, req)
	}

	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		values := md.Get(common.AccessTokenHeaderName)
		if len(values) > 0 {
			accessToken = values[0]
		}
	}
	if len(accessToken) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	claims, err := auth.ParseToken(accessToken, s.jwtSecret)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, status.Error(codes.Unauthenticated, "token expired")
		}
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	}

	ctx = context.WithValue(ctx, claimsKey, claims)

	return handler(ctx, req)
}

func claimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*auth.Claims)
	return c, ok && c != nil
}

// organizationFor resolves the organization a request acts on. An explicit
// organization id must match the one in the token.
func organizationFor(ctx context.Context, requested string) (string, error) {
	claims, ok := claimsFromContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "missing token")
	}
	if requested != "" && requested != claims.OrganizationID {
		return "", status.Error(codes.PermissionDenied, "organization mismatch")
	}
	return claims.OrganizationID, nil
}
