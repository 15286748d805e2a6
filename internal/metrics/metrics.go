// Package metrics exposes the prometheus collectors used across the server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts handled requests by route template, method and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "langex_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"route", "method", "status"})

	// HTTPDuration records request latency by route template.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "langex_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	// FriendRequests counts ledger transitions: created, duplicate, accepted.
	FriendRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "langex_friend_requests_total",
		Help: "Friend request ledger events by outcome",
	}, []string{"outcome"})

	// ChatSync counts best-effort chat identity syncs by result.
	ChatSync = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "langex_chat_sync_total",
		Help: "Chat provider identity syncs by result",
	}, []string{"result"})

	// NotificationFailures counts notifications that could not be stored.
	NotificationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "langex_notification_failures_total",
		Help: "Notifications dropped because the write failed",
	})

	// FriendshipRepairs counts friend-set entries restored by the reconciler.
	FriendshipRepairs = promauto.NewCounter(prometheus.CounterOpts{
		Name: "langex_friendship_repairs_total",
		Help: "Friend-set entries re-applied by the reconciler",
	})

	// RateLimited counts requests rejected by the auth rate limiter.
	RateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "langex_rate_limited_total",
		Help: "Requests rejected by the rate limiter",
	}, []string{"resource"})
)
