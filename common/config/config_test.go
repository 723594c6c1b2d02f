package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDatabaseConfig_GetDSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "naricare", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=naricare sslmode=disable", c.GetDSN())
}

func TestDatabaseConfig_LoadFromEnvOnlyOverridesSetValues(t *testing.T) {
	t.Setenv("TESTDB_HOST", "pg.internal")
	t.Setenv("TESTDB_PORT", "not-a-number")
	t.Setenv("TESTDB_MAX_CONNS", "40")

	c := DatabaseConfig{Host: "localhost", Port: 5432, User: "postgres", MaxConns: 20}
	c.LoadFromEnv("TESTDB")

	assert.Equal(t, "pg.internal", c.Host)
	assert.Equal(t, 5432, c.Port)
	assert.Equal(t, "postgres", c.User)
	assert.Equal(t, 40, c.MaxConns)
}

func TestRedisConfig_LoadFromEnv(t *testing.T) {
	t.Setenv("TESTREDIS_ADDR", "cache:6379")
	t.Setenv("TESTREDIS_DB", "2")

	c := RedisConfig{Addr: "localhost:6379"}
	c.LoadFromEnv("TESTREDIS")

	assert.Equal(t, "cache:6379", c.Addr)
	assert.Equal(t, 2, c.DB)
}

func TestMQTTConfig_LoadFromEnvRejectsInvalidQoS(t *testing.T) {
	t.Setenv("TESTMQTT_BROKER", "tcp://broker:1883")
	t.Setenv("TESTMQTT_QOS", "5")

	c := MQTTConfig{Broker: "tcp://localhost:1883", QoS: 1}
	c.LoadFromEnv("TESTMQTT")

	assert.Equal(t, "tcp://broker:1883", c.Broker)
	assert.Equal(t, byte(1), c.QoS)
}
