package domain

import "time"

// Transaction is an append-only ledger line written in the same store
// transaction as the balance change it documents.
type Transaction struct {
	ID        int64                  `db:"id" json:"id"`
	PlayerID  int64                  `db:"player_id" json:"player_id"`
	Type      string                 `db:"type" json:"type"`
	Resource  string                 `db:"resource" json:"resource"`
	Amount    int64                  `db:"amount" json:"amount"`
	Meta      map[string]interface{} `db:"meta" json:"meta,omitempty"`
	CreatedAt time.Time              `db:"created_at" json:"created_at"`
}

// Ledger transaction types.
const (
	TxAttackLoot      = "attack_loot"
	TxAttackLoss      = "attack_loss"
	TxAttackCost      = "attack_cost"
	TxLevelUpBonus    = "level_up_bonus"
	TxDefenseUpgrade  = "defense_upgrade"
	TxMinerClaim      = "miner_claim"
	TxMinerUpgrade    = "miner_upgrade"
	TxBoxCost         = "box_cost"
	TxBoxReward       = "box_reward"
	TxMissilePurchase = "missile_purchase"
	TxStarterGrant    = "starter_grant"
	TxAdminGrant      = "admin_grant"
)

// ResourceMissile is the ledger resource name for inventory movements.
const ResourceMissile = "missile"
