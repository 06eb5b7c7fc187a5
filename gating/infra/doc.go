// Package infra contém implementações concretas dos contratos do pacote domain.
//
// Exemplos:
//   - MemoryCounterStore / RedisCounterStore / PostgresCounterStore: contadores diários
//   - MemoryLedger / PostgresLedger: ledger append-only de interações
//   - MemoryTierDirectory / PostgresTierDirectory: colaborador de identidade (tier)
//   - MemoryStatsStore / RedisStatsStore: estatísticas de decisão
//   - BucketStore: token bucket por chave usando golang.org/x/time/rate
//   - NewChanPool: semáforo simples para limite de concorrência
package infra
