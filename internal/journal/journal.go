// Package journal archives the session's push traffic and chat locally so
// a finished game can be reviewed offline. Recording is best-effort; a
// write failure never disturbs the engine.
package journal

import (
	"errors"
	"log"
	"time"

	"death-on-the-cards/internal/game"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type PushRecord struct {
	ID         uint           `gorm:"primaryKey"`
	GameID     int            `gorm:"index;not null"`
	Model      string         `gorm:"size:32;not null"`
	Action     string         `gorm:"size:64;not null"`
	Payload    datatypes.JSON `gorm:"not null"`
	ReceivedAt time.Time      `gorm:"not null"`
}

type ChatRecord struct {
	ID         uint      `gorm:"primaryKey"`
	GameID     int       `gorm:"index;not null"`
	OwnerName  string    `gorm:"size:64"`
	Content    string    `gorm:"size:280;not null"`
	ReceivedAt time.Time `gorm:"not null"`
}

// Journal implements game.Recorder on a local sqlite file.
type Journal struct {
	db     *gorm.DB
	gameID int
}

// Open creates or reuses the journal database at path.
func Open(path string, gameID int) (*Journal, error) {
	if path == "" {
		return nil, errors.New("journal path is empty")
	}
	conn, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := conn.AutoMigrate(&PushRecord{}, &ChatRecord{}); err != nil {
		return nil, err
	}
	return &Journal{db: conn, gameID: gameID}, nil
}

func (j *Journal) Push(model, action string, data []byte) {
	record := PushRecord{
		GameID:     j.gameID,
		Model:      model,
		Action:     action,
		Payload:    datatypes.JSON(data),
		ReceivedAt: time.Now().UTC(),
	}
	if err := j.db.Create(&record).Error; err != nil {
		log.Printf("journal push write failed game_id=%d model=%s error=%v", j.gameID, model, err)
	}
}

func (j *Journal) Chat(msg game.ChatMessage) {
	record := ChatRecord{
		GameID:     j.gameID,
		OwnerName:  msg.OwnerName,
		Content:    msg.Content,
		ReceivedAt: time.Now().UTC(),
	}
	if err := j.db.Create(&record).Error; err != nil {
		log.Printf("journal chat write failed game_id=%d error=%v", j.gameID, err)
	}
}

// Pushes returns the recorded push traffic for a game, oldest first.
func (j *Journal) Pushes(gameID int) ([]PushRecord, error) {
	var records []PushRecord
	err := j.db.Where("game_id = ?", gameID).Order("id asc").Find(&records).Error
	return records, err
}
