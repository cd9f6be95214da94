package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"soundtrace/apperrors"
	"soundtrace/models"
	"soundtrace/utils"
)

const (
	mongoDatabaseName   = "SoundTraceDB"
	songsCollection     = "songs"
	fingerprintsColl    = "fingerprints"
	countersCollection  = "counters"
	songIDCounterName   = "songID"
	defaultMongoTimeout = 10 * time.Second
)

// songDoc/fingerprintDoc mirror the wire format described in spec.md
// §6: songs keyed by _id=songID with a unique "key" index;
// fingerprints keyed by _id=address with a "couples" array of
// {anchorTimeMs, songID} subdocuments.
type songDoc struct {
	ID     uint32 `bson:"_id"`
	Title  string `bson:"title"`
	Artist string `bson:"artist"`
	Key    string `bson:"key"`
}

type coupleDoc struct {
	AnchorTimeMs uint32 `bson:"anchorTimeMs"`
	SongID       uint32 `bson:"songID"`
}

type fingerprintDoc struct {
	Address uint32      `bson:"_id"`
	Couples []coupleDoc `bson:"couples"`
}

type counterDoc struct {
	Name  string `bson:"_id"`
	Value uint32 `bson:"value"`
}

// MongoClient is the primary FingerprintStore backend, grounded on
// original_source/mongo.h's MongoClient: a unique index on
// songs.key, and fingerprints accumulated via $addToSet into a
// couples array keyed by address.
type MongoClient struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoClient connects to uri (MONGO_URI, or a localhost default
// when unset/empty) and ensures the songs.key unique index exists.
func NewMongoClient(uri string) (*MongoClient, error) {
	if uri == "" {
		uri = utils.GetEnv("MONGO_URI", "mongodb://localhost:27017")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultMongoTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, apperrors.ErrStoreUnavailable
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, apperrors.ErrStoreUnavailable
	}

	mc := &MongoClient{client: client, db: client.Database(mongoDatabaseName)}

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "key", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := mc.db.Collection(songsCollection).Indexes().CreateOne(ctx, indexModel); err != nil {
		client.Disconnect(ctx)
		return nil, apperrors.ErrStoreUnavailable
	}

	return mc, nil
}

func (m *MongoClient) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultMongoTimeout)
	defer cancel()
	return m.client.Disconnect(ctx)
}

// nextSongID atomically increments the songID counter document,
// avoiding the find-max-then-insert race the original C++
// implementation is exposed to.
func (m *MongoClient) nextSongID(ctx context.Context) (uint32, error) {
	coll := m.db.Collection(countersCollection)
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc counterDoc
	err := coll.FindOneAndUpdate(ctx,
		bson.M{"_id": songIDCounterName},
		bson.M{"$inc": bson.M{"value": 1}},
		opts,
	).Decode(&doc)
	if err != nil {
		return 0, err
	}
	return doc.Value, nil
}

func (m *MongoClient) RegisterSong(title, artist string) (uint32, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultMongoTimeout)
	defer cancel()

	key := utils.GenerateSongKey(title, artist)

	if existing, _ := m.GetSongByKey(key); existing != nil {
		return 0, apperrors.ErrDuplicateKey
	}

	songID, err := m.nextSongID(ctx)
	if err != nil {
		return 0, apperrors.ErrStoreUnavailable
	}

	_, err = m.db.Collection(songsCollection).InsertOne(ctx, songDoc{
		ID:     songID,
		Title:  title,
		Artist: artist,
		Key:    key,
	})
	if mongo.IsDuplicateKeyError(err) {
		return 0, apperrors.ErrDuplicateKey
	}
	if err != nil {
		return 0, apperrors.ErrStoreUnavailable
	}

	return songID, nil
}

func (m *MongoClient) GetSongByID(id uint32) (*models.Song, error) {
	return m.getSong(bson.M{"_id": id})
}

func (m *MongoClient) GetSongByKey(key string) (*models.Song, error) {
	return m.getSong(bson.M{"key": key})
}

func (m *MongoClient) getSong(filter bson.M) (*models.Song, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultMongoTimeout)
	defer cancel()

	var doc songDoc
	err := m.db.Collection(songsCollection).FindOne(ctx, filter).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.ErrStoreUnavailable
	}

	return &models.Song{ID: doc.ID, Title: doc.Title, Artist: doc.Artist, Key: doc.Key}, nil
}

func (m *MongoClient) GetAllSongs() ([]models.Song, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultMongoTimeout)
	defer cancel()

	cur, err := m.db.Collection(songsCollection).Find(ctx, bson.M{})
	if err != nil {
		return nil, apperrors.ErrStoreUnavailable
	}
	defer cur.Close(ctx)

	var songs []models.Song
	for cur.Next(ctx) {
		var doc songDoc
		if err := cur.Decode(&doc); err != nil {
			continue
		}
		songs = append(songs, models.Song{ID: doc.ID, Title: doc.Title, Artist: doc.Artist, Key: doc.Key})
	}
	return songs, cur.Err()
}

func (m *MongoClient) DeleteSongByID(id uint32) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultMongoTimeout)
	defer cancel()

	_, err := m.db.Collection(songsCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperrors.ErrStoreUnavailable
	}
	return nil
}

func (m *MongoClient) TotalSongs() (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultMongoTimeout)
	defer cancel()

	n, err := m.db.Collection(songsCollection).CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, apperrors.ErrStoreUnavailable
	}
	return int(n), nil
}

func (m *MongoClient) TotalFingerprints() (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultMongoTimeout)
	defer cancel()

	cur, err := m.db.Collection(fingerprintsColl).Find(ctx, bson.M{})
	if err != nil {
		return 0, apperrors.ErrStoreUnavailable
	}
	defer cur.Close(ctx)

	total := 0
	for cur.Next(ctx) {
		var doc fingerprintDoc
		if err := cur.Decode(&doc); err != nil {
			continue
		}
		total += len(doc.Couples)
	}
	return total, cur.Err()
}

// StoreFingerprints upserts every (address, couple) pair, appending
// via $addToSet rather than $push so exact-duplicate triples
// (address, anchorTimeMs, songID) collapse instead of accumulating —
// see DESIGN.md's Open Question #4.
func (m *MongoClient) StoreFingerprints(fingerprints map[uint32]models.Couple) error {
	if len(fingerprints) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultMongoTimeout)
	defer cancel()

	coll := m.db.Collection(fingerprintsColl)

	models_ := make([]mongo.WriteModel, 0, len(fingerprints))
	for address, couple := range fingerprints {
		filter := bson.M{"_id": address}
		update := bson.M{
			"$addToSet": bson.M{
				"couples": bson.M{
					"anchorTimeMs": couple.AnchorTimeMs,
					"songID":       couple.SongID,
				},
			},
		}
		models_ = append(models_, mongo.NewUpdateOneModel().
			SetFilter(filter).
			SetUpdate(update).
			SetUpsert(true))
	}

	_, err := coll.BulkWrite(ctx, models_)
	if err != nil {
		return apperrors.ErrStoreUnavailable
	}
	return nil
}

func (m *MongoClient) GetCouples(addresses []uint32) (map[uint32][]models.Couple, error) {
	if len(addresses) == 0 {
		return map[uint32][]models.Couple{}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultMongoTimeout)
	defer cancel()

	cur, err := m.db.Collection(fingerprintsColl).Find(ctx, bson.M{"_id": bson.M{"$in": addresses}})
	if err != nil {
		return nil, apperrors.ErrStoreUnavailable
	}
	defer cur.Close(ctx)

	result := make(map[uint32][]models.Couple)
	for cur.Next(ctx) {
		var doc fingerprintDoc
		if err := cur.Decode(&doc); err != nil {
			continue
		}
		couples := make([]models.Couple, len(doc.Couples))
		for i, c := range doc.Couples {
			couples[i] = models.Couple{AnchorTimeMs: c.AnchorTimeMs, SongID: c.SongID}
		}
		result[doc.Address] = couples
	}
	return result, cur.Err()
}

func (m *MongoClient) DeleteCollection(name string) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultMongoTimeout)
	defer cancel()

	if err := m.db.Collection(name).Drop(ctx); err != nil {
		return apperrors.ErrStoreUnavailable
	}
	return nil
}
