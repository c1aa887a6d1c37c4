// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package recommend implements nearest-neighbor quest recommendation.
//
// # Feature Vectors
//
// Every vector the index sees, at training and at inference, has the same
// positional layout:
//
//	| quest completion (Schema.QuestIDs) | numerical features | one-hot categorical |
//
// The layout is fixed by a training run and stored in the Bundle alongside
// the fitted encoder and index. Inference never derives it from the request;
// quests that were not seen at training simply contribute nothing. A vector
// whose length differs from the index dimensionality is rejected with
// FeatureMismatchError instead of being padded or truncated.
//
// # Artifacts
//
// Artifacts holds the published Bundle behind an atomic pointer:
//
//	store := storage.NewFileStore(dir, 3, logger)
//	artifacts := recommend.NewArtifacts(store, logger)
//	trainer := recommend.NewTrainer(cfg, artifacts, logger)
//	recommender := recommend.NewRecommender(cfg, artifacts, nil, logger)
//
//	if _, err := trainer.Train(ctx, activities, userFeatures); err != nil {
//	    return err
//	}
//	recs, err := recommender.Recommend(ctx, recommend.RecommendRequest{...})
//
// Writers (training and store reloads) are serialized and install a bundle
// only after it has been persisted. Readers take one snapshot per call.
//
// # Errors
//
// InvalidInputError and ErrModelNotTrained are caller errors.
// FeatureMismatchError, TransformError and StorageError are server faults.
// Nothing in this package retries.
package recommend
