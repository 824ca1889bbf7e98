package models

import (
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/supabase-community/supabase-go"
	"go.mongodb.org/mongo-driver/mongo"
)

var Validate = validator.New()

// SupabaseRepo talks to the hosted auth service.
type SupabaseRepo struct {
	supabaseClient *supabase.Client
}

func SupabaseNewRepo(supabaseClient *supabase.Client) *SupabaseRepo {
	return &SupabaseRepo{supabaseClient: supabaseClient}
}

// PostgresRepo owns every relational table: users, listings, the ledger, chats and images.
type PostgresRepo struct {
	db *sqlx.DB
}

func PostgresNewRepo(db *sqlx.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

type MongodbRepo struct {
	mongodbClient *mongo.Client
	database      string
}

func MongodbNewRepo(mongodbClient *mongo.Client, database string) *MongodbRepo {
	return &MongodbRepo{
		mongodbClient: mongodbClient,
		database:      database,
	}
}

type RedisRepo struct {
	client *redis.Client
}

func RedisNewRepo(client *redis.Client) *RedisRepo {
	return &RedisRepo{client: client}
}
